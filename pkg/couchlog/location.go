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
	"runtime"
	"strings"
)

// NA is used for location parts that could not be determined
const NA = "?"

// Location is the event call site
type Location struct {
	ClassName  string
	FileName   string
	MethodName string
	LineNumber int
}

// LocationFromFrame maps a runtime frame to a call site location.
//
// Go has no classes. The class name is the package path, qualified by the receiver type for methods:
//
//	github.com/oysterpack/couchlog/pkg/couchlog.(*Exporter).Handle -> className = github.com/oysterpack/couchlog/pkg/couchlog.Exporter, methodName = Handle
//	main.main -> className = main, methodName = main
func LocationFromFrame(frame runtime.Frame) *Location {
	className, methodName := splitFunction(frame.Function)
	fileName := frame.File
	if fileName == "" {
		fileName = NA
	}
	return &Location{
		ClassName:  className,
		FileName:   fileName,
		MethodName: methodName,
		LineNumber: frame.Line,
	}
}

// LocationFromPC resolves the call site for the specified program counter.
// nil is returned if pc is zero.
func LocationFromPC(pc uintptr) *Location {
	if pc == 0 {
		return nil
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return LocationFromFrame(frame)
}

func splitFunction(function string) (className, methodName string) {
	if function == "" {
		return NA, NA
	}
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return NA, function
	}
	dot += slash + 1
	pkg, name := function[:dot], function[dot+1:]

	// method with a pointer receiver: (*T).M
	if strings.HasPrefix(name, "(") {
		end := strings.Index(name, ")")
		if end > 0 && end+1 < len(name) && name[end+1] == '.' {
			receiver := strings.TrimPrefix(name[1:end], "*")
			return pkg + "." + receiver, name[end+2:]
		}
		return pkg, name
	}

	// method with a value receiver: T.M
	// closures are named F.func1 and are attributed to the enclosing function
	if i := strings.Index(name, "."); i > 0 && !strings.HasPrefix(name[i+1:], "func") {
		return pkg + "." + name[:i], name[i+1:]
	}
	return pkg, name
}
