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

package main

import (
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func setFlags(t *testing.T, values map[*string]string) {
	for p, value := range values {
		prev := *p
		*p = value
		t.Cleanup(func() { *p = prev })
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("from flags", func(t *testing.T) {
		setFlags(t, map[*string]string{
			url:     "http://localhost:5984/error-log",
			host:    "web-1",
			process: "checkout",
		})
		config, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5984/error-log", config.DestinationURL)
		assert.Equal(t, "web-1", config.HostIdentifier)
		assert.Equal(t, "checkout", config.ProcessIdentifier)
	})

	t.Run("from env", func(t *testing.T) {
		setFlags(t, map[*string]string{url: "", host: ""})
		t.Setenv(couchlog.EnvPrefix+"_DESTINATION_URL", "http://couch:5984/errors")
		t.Setenv(couchlog.EnvPrefix+"_HOST_IDENTIFIER", "web-2")
		config, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "http://couch:5984/errors", config.DestinationURL)
		assert.Equal(t, "web-2", config.HostIdentifier)
	})

	t.Run("blank url flag", func(t *testing.T) {
		setFlags(t, map[*string]string{url: " "})
		_, err := loadConfig()
		assert.Error(t, err)
	})
}

func TestNewEvent(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		setFlags(t, map[*string]string{
			level:      "warn",
			loggerName: "com.example.Foo",
			ndc:        "req-1",
			errMsg:     "BOOM",
		})
		event, err := newEvent([]string{"payment", "failed"})
		require.NoError(t, err)
		assert.Equal(t, couchlog.WarnLevel, event.Level)
		assert.Equal(t, "com.example.Foo", event.LoggerName)
		assert.Equal(t, "payment failed", event.Message)
		assert.Equal(t, "req-1", event.NDC)
		assert.NotZero(t, event.Timestamp)
		require.NotNil(t, event.Location)
		require.NotNil(t, event.Failure)
		assert.Equal(t, "BOOM", event.Failure.Message)
	})

	t.Run("invalid level", func(t *testing.T) {
		setFlags(t, map[*string]string{level: "LOUD"})
		_, err := newEvent(nil)
		assert.Error(t, err)
	})
}
