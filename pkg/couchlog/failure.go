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

package couchlog

import (
	"fmt"
	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"
	"reflect"
	"runtime"
)

// Failure is the error associated with a log event
type Failure struct {
	// ClassName is the fully qualified error type name
	ClassName string
	// Message is the error's own message. Empty means absent.
	Message string
	// Lines is the pre-rendered error representation
	Lines []string
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FailureFromError renders the error as a Failure:
//  - the first line is the error type name followed by the error message
//  - stack frames follow, if the error carries a pkg/errors or go-errors stack trace
//  - each wrapped cause is appended as a "Caused by: " line
//
// nil is returned for a nil error.
func FailureFromError(err error) *Failure {
	if err == nil {
		return nil
	}

	className := TypeName(err)
	// go-errors wraps the error to attach a stack
	if goErr, ok := err.(*goerrors.Error); ok && goErr.Err != nil {
		className = TypeName(goErr.Err)
	}
	lines := []string{headline(className, err.Error())}
	lines = appendStackTrace(lines, err)
	for parent, cause := err, errors.Unwrap(err); cause != nil; parent, cause = cause, errors.Unwrap(cause) {
		// pkg/errors wraps with a stack and a message layer which render the same message
		if cause.Error() == parent.Error() {
			continue
		}
		lines = append(lines, "Caused by: "+headline(TypeName(cause), cause.Error()))
		lines = appendStackTrace(lines, cause)
	}

	return &Failure{
		ClassName: className,
		Message:   err.Error(),
		Lines:     lines,
	}
}

// TypeName returns the fully qualified name of the value's type, e.g., github.com/pkg/errors.fundamental.
// Pointers are dereferenced.
func TypeName(v interface{}) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func headline(className, msg string) string {
	if msg == "" {
		return className
	}
	return className + ": " + msg
}

func appendStackTrace(lines []string, err error) []string {
	if goErr, ok := err.(*goerrors.Error); ok {
		for _, frame := range goErr.StackFrames() {
			lines = append(lines, fmt.Sprintf("\tat %s.%s(%s:%d)", frame.Package, frame.Name, frame.File, frame.LineNumber))
		}
		return lines
	}

	tracer, ok := err.(stackTracer)
	if !ok {
		return lines
	}
	for _, frame := range tracer.StackTrace() {
		pc := uintptr(frame) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			lines = append(lines, "\tat unknown")
			continue
		}
		file, line := fn.FileLine(pc)
		lines = append(lines, fmt.Sprintf("\tat %s(%s:%d)", fn.Name(), file, line))
	}
	return lines
}
