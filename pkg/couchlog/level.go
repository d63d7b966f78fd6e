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
	"github.com/pkg/errors"
	"strconv"
	"strings"
)

// Level is the event severity. Higher values are more severe.
type Level int

// Level enum
const (
	// NoLevel means the event has no severity. The level field is omitted from the document.
	NoLevel    Level = 0
	TraceLevel Level = 5000
	DebugLevel Level = 10000
	InfoLevel  Level = 20000
	WarnLevel  Level = 30000
	ErrorLevel Level = 40000
	FatalLevel Level = 50000
)

var levelNames = map[Level]string{
	NoLevel:    "NONE",
	TraceLevel: "TRACE",
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
	FatalLevel: "FATAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return strconv.Itoa(int(l))
}

// Valid returns true if the level is one of the enum values
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// Enabled returns true if the level is at or above the threshold.
func (l Level) Enabled(threshold Level) bool {
	return l >= threshold
}

// ParseLevel parses a level name. Names are case insensitive.
func ParseLevel(value string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "NONE", "":
		return NoLevel, nil
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "FATAL":
		return FatalLevel, nil
	default:
		return NoLevel, errors.Errorf("unknown level: %q", value)
	}
}

// Decode implements `envconfig.Decoder` interface
func (l *Level) Decode(value string) error {
	level, err := ParseLevel(value)
	if err != nil {
		return err
	}
	*l = level
	return nil
}
