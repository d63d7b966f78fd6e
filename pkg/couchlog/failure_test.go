/*
 * Copyright (c) 2019 OysterPack, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package couchlog_test

import (
	stderrors "errors"
	goerrors "github.com/go-errors/errors"
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

type silentError struct{}

func (silentError) Error() string { return "" }

func TestFailureFromError(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, couchlog.FailureFromError(nil))
	})

	t.Run("std lib error", func(t *testing.T) {
		failure := couchlog.FailureFromError(stderrors.New("BOOM"))
		require.NotNil(t, failure)
		assert.Equal(t, "errors.errorString", failure.ClassName)
		assert.Equal(t, "BOOM", failure.Message)
		assert.Equal(t, []string{"errors.errorString: BOOM"}, failure.Lines)
	})

	t.Run("error with stack trace", func(t *testing.T) {
		failure := couchlog.FailureFromError(errors.New("BOOM"))
		require.NotNil(t, failure)
		t.Log(strings.Join(failure.Lines, "\n"))
		assert.Equal(t, "github.com/pkg/errors.fundamental", failure.ClassName)
		assert.Equal(t, "github.com/pkg/errors.fundamental: BOOM", failure.Lines[0])
		require.True(t, len(failure.Lines) > 1, "stack frames should have been rendered")
		assert.True(t, strings.HasPrefix(failure.Lines[1], "\tat "), failure.Lines[1])
		assert.Contains(t, failure.Lines[1], "TestFailureFromError")
	})

	t.Run("go-errors error with stack trace", func(t *testing.T) {
		failure := couchlog.FailureFromError(goerrors.New("BOOM"))
		require.NotNil(t, failure)
		t.Log(strings.Join(failure.Lines, "\n"))
		assert.Equal(t, "errors.errorString", failure.ClassName)
		assert.Equal(t, "BOOM", failure.Message)
		assert.Equal(t, "errors.errorString: BOOM", failure.Lines[0])
		require.True(t, len(failure.Lines) > 1, "stack frames should have been rendered")
		assert.True(t, strings.HasPrefix(failure.Lines[1], "\tat "), failure.Lines[1])
		assert.Contains(t, failure.Lines[1], "TestFailureFromError")
		for _, line := range failure.Lines {
			assert.False(t, strings.HasPrefix(line, "Caused by: "), "the wrapped error renders the same message")
		}
	})

	t.Run("wrapped error", func(t *testing.T) {
		failure := couchlog.FailureFromError(errors.Wrap(stderrors.New("inner"), "outer"))
		require.NotNil(t, failure)
		t.Log(strings.Join(failure.Lines, "\n"))
		assert.Equal(t, "github.com/pkg/errors.withStack", failure.ClassName)
		assert.Equal(t, "outer: inner", failure.Message)
		assert.Equal(t, "Caused by: errors.errorString: inner", failure.Lines[len(failure.Lines)-1])
	})

	t.Run("error without a message", func(t *testing.T) {
		failure := couchlog.FailureFromError(silentError{})
		require.NotNil(t, failure)
		assert.Equal(t, "github.com/oysterpack/couchlog/pkg/couchlog_test.silentError", failure.ClassName)
		assert.Empty(t, failure.Message)
		assert.Equal(t, []string{failure.ClassName}, failure.Lines)
	})
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "nil", couchlog.TypeName(nil))
	assert.Equal(t, "int", couchlog.TypeName(1))
	assert.Equal(t, "github.com/oysterpack/couchlog/pkg/couchlog.Exporter", couchlog.TypeName(&couchlog.Exporter{}))
}
