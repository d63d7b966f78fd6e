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

package eventlog

import (
	"crypto/rand"
	"github.com/oklog/ulid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"io"
	"os"
	"sync"
)

// diagnostic event field names
const (
	Name      = "n" // event type ID
	Component = "c"
	ULID      = "z" // event instance ID
	Tags      = "g"
)

// ConfigureZerolog switches the zerolog globals to the compact diagnostic format:
//
//	t = timestamp (Unix ms), l = level, m = message, e = error, s = error stack
//
// The settings are process wide and apply to every zerolog logger, including the ones the couchzerolog writer parses.
func ConfigureZerolog() {
	zerolog.TimestampFieldName = "t"
	zerolog.LevelFieldName = "l"
	zerolog.MessageFieldName = "m"
	zerolog.ErrorFieldName = "e"
	zerolog.ErrorStackFieldName = "s"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerolog.DurationFieldInteger = true
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// MonotonicULIDGenerator returns a ULID source whose IDs strictly increase. It is safe for concurrent use and panics
// if the entropy source fails.
func MonotonicULIDGenerator() func() ulid.ULID {
	var mutex sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func() ulid.ULID {
		mutex.Lock()
		defer mutex.Unlock()
		return ulid.MustNew(ulid.Now(), entropy)
	}
}

var nextInstanceID = MonotonicULIDGenerator()

// ForEvent tags the logger's events with the event type ID
func ForEvent(logger *zerolog.Logger, event string) *zerolog.Logger {
	eventLogger := logger.With().Str(Name, event).Logger()
	return &eventLogger
}

// ForComponent tags the logger's events with the component name
func ForComponent(logger *zerolog.Logger, component string) *zerolog.Logger {
	componentLogger := logger.With().Str(Component, component).Logger()
	return &componentLogger
}

// WithEventULID stamps each event with a new instance ULID
func WithEventULID(logger zerolog.Logger) zerolog.Logger {
	return logger.Hook(zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
		e.Str(ULID, nextInstanceID().String())
	}))
}

// NewZeroLogger returns a timestamped logger that stamps each event with an instance ULID:
//
//	{"z":"01DFBGCFD9WD29SGRJPK8KZKQS","t":1562680638000,"m":"export failed"}
func NewZeroLogger(w io.Writer) zerolog.Logger {
	return WithEventULID(zerolog.New(w)).With().Timestamp().Logger()
}

// NewDiagnosticLogger returns the component's diagnostic logger. If w is nil, then events are written to stderr.
func NewDiagnosticLogger(w io.Writer, component string) *zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := NewZeroLogger(w)
	return ForComponent(&logger, component)
}
