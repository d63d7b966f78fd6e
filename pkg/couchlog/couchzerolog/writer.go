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

// Package couchzerolog registers the exporter with zerolog as a zerolog.LevelWriter.
//
// zerolog renders each event as a JSON line before it reaches the writer. The writer parses the line back into a
// couchlog.LogEvent using the current zerolog global field names. Use zerolog.MultiLevelWriter to export events in
// addition to the application's regular log output.
//
// Event timestamps keep millisecond precision only when zerolog.TimeFieldFormat does, e.g., zerolog.TimeFormatUnixMs
// (applied by eventlog.ConfigureZerolog) or time.RFC3339Nano. With the zerolog default (time.RFC3339), events are
// stamped with the time the line reaches the writer.
//
//	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
//
//	w := couchzerolog.NewWriter(exporter, couchzerolog.Opts{Threshold: config.Threshold})
//	logger := zerolog.New(zerolog.MultiLevelWriter(os.Stdout, w)).With().Timestamp().Caller().Logger()
//	logger.Error().Str(couchzerolog.LoggerNameKey, "com.example.Foo").Object(couchzerolog.ThrowableKey, couchzerolog.Failure(err)).Msg("failed")
package couchzerolog

import (
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"github.com/oysterpack/couchlog/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"
	"io"
	"strconv"
	"strings"
	"time"
)

// field keys
const (
	// LoggerNameKey is the default logger name field key
	LoggerNameKey = "logger"
	// NDCKey is the nested diagnostic context field key
	NDCKey = "ndc"
	// ThrowableKey is the field key used by Failure
	ThrowableKey = "throwable"
)

// ErrorClassName is used as the failure class name when only the error message is known
const ErrorClassName = "error"

// Opts are used to configure the writer
type Opts struct {
	// Threshold - events below the threshold are ignored
	Threshold couchlog.Level
	// LoggerNameField - default = "logger"
	LoggerNameField string
	// DiagnosticLog is where malformed lines are reported - default = os.Stderr
	DiagnosticLog io.Writer
}

// Writer is a zerolog.LevelWriter that exports log events
type Writer struct {
	handler         couchlog.Handler
	threshold       couchlog.Level
	loggerNameField string
	parsers         fastjson.ParserPool

	logMalformedLine eventlog.ErrorLogger
}

var _ zerolog.LevelWriter = &Writer{}

// NewWriter constructs a new Writer
func NewWriter(handler couchlog.Handler, opts Opts) *Writer {
	loggerNameField := strings.TrimSpace(opts.LoggerNameField)
	if loggerNameField == "" {
		loggerNameField = LoggerNameKey
	}

	return &Writer{
		handler:         handler,
		threshold:       opts.Threshold,
		loggerNameField: loggerNameField,

		logMalformedLine: eventlog.MalformedLogLine.NewErrorLogger(eventlog.NewDiagnosticLogger(opts.DiagnosticLog, couchlog.Component)),
	}
}

// Level maps a zerolog level to a couchlog level.
// false is returned for zerolog.Disabled.
func Level(level zerolog.Level) (couchlog.Level, bool) {
	switch level {
	case zerolog.TraceLevel:
		return couchlog.TraceLevel, true
	case zerolog.DebugLevel:
		return couchlog.DebugLevel, true
	case zerolog.InfoLevel:
		return couchlog.InfoLevel, true
	case zerolog.WarnLevel:
		return couchlog.WarnLevel, true
	case zerolog.ErrorLevel:
		return couchlog.ErrorLevel, true
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return couchlog.FatalLevel, true
	case zerolog.NoLevel:
		return couchlog.NoLevel, true
	default:
		return couchlog.NoLevel, false
	}
}

// Write is used when the level is not known up front. The level is parsed from the line.
func (w *Writer) Write(p []byte) (int, error) {
	parser := w.parsers.Get()
	defer w.parsers.Put(parser)

	v, err := parser.ParseBytes(p)
	if err != nil {
		w.logMalformedLine(malformedLine(p), errors.Wrap(err, "invalid JSON"))
		return len(p), nil
	}

	level := zerolog.NoLevel
	if levelName := v.GetStringBytes(zerolog.LevelFieldName); levelName != nil {
		if level, err = zerolog.ParseLevel(string(levelName)); err != nil {
			w.logMalformedLine(malformedLine(p), err)
			return len(p), nil
		}
	}
	w.export(level, v)
	return len(p), nil
}

// WriteLevel implements zerolog.LevelWriter
func (w *Writer) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if l, ok := Level(level); !ok || !l.Enabled(w.threshold) {
		return len(p), nil
	}

	parser := w.parsers.Get()
	defer w.parsers.Put(parser)

	v, err := parser.ParseBytes(p)
	if err != nil {
		w.logMalformedLine(malformedLine(p), errors.Wrap(err, "invalid JSON"))
		return len(p), nil
	}
	w.export(level, v)
	return len(p), nil
}

func (w *Writer) export(level zerolog.Level, v *fastjson.Value) {
	l, ok := Level(level)
	if !ok || !l.Enabled(w.threshold) {
		return
	}

	event := couchlog.LogEvent{
		Level:      l,
		LoggerName: string(v.GetStringBytes(w.loggerNameField)),
		Message:    string(v.GetStringBytes(zerolog.MessageFieldName)),
		Location:   location(v.GetStringBytes(zerolog.CallerFieldName)),
		NDC:        string(v.GetStringBytes(NDCKey)),
		Failure:    failure(v),
		Timestamp:  timestamp(v.Get(zerolog.TimestampFieldName)),
	}
	w.handler.Handle(event)
}

// zerolog renders the caller as file:line
func location(caller []byte) *couchlog.Location {
	if len(caller) == 0 {
		return nil
	}
	s := string(caller)
	loc := &couchlog.Location{
		ClassName:  couchlog.NA,
		FileName:   s,
		MethodName: couchlog.NA,
	}
	if i := strings.LastIndexByte(s, ':'); i > 0 {
		if line, err := strconv.Atoi(s[i+1:]); err == nil {
			loc.FileName = s[:i]
			loc.LineNumber = line
		}
	}
	return loc
}

func failure(v *fastjson.Value) *couchlog.Failure {
	if throwable := v.GetObject(ThrowableKey); throwable != nil && throwable.Len() > 0 {
		f := &couchlog.Failure{
			ClassName: string(throwable.Get("className").GetStringBytes()),
			Message:   string(throwable.Get("message").GetStringBytes()),
		}
		if info := throwable.Get("information").GetStringBytes(); len(info) > 0 {
			f.Lines = strings.Split(string(info), "\n")
		}
		return f
	}

	msg := v.GetStringBytes(zerolog.ErrorFieldName)
	if msg == nil {
		return nil
	}
	f := &couchlog.Failure{
		ClassName: ErrorClassName,
		Message:   string(msg),
		Lines:     []string{ErrorClassName + ": " + string(msg)},
	}
	// zerolog/pkgerrors stack format: [{"func":"...","line":"...","source":"..."}]
	for _, frame := range v.GetArray(zerolog.ErrorStackFieldName) {
		f.Lines = append(f.Lines, "\tat "+string(frame.GetStringBytes("func"))+
			"("+string(frame.GetStringBytes("source"))+":"+string(frame.GetStringBytes("line"))+")")
	}
	return f
}

// Lines written with a time format coarser than milliseconds are stamped with the write time.
func timestamp(v *fastjson.Value) int64 {
	if v == nil {
		return couchlog.TimestampOf(time.Now())
	}

	switch v.Type() {
	case fastjson.TypeNumber:
		n := v.GetInt64()
		switch zerolog.TimeFieldFormat {
		case zerolog.TimeFormatUnixMs:
			return n
		case zerolog.TimeFormatUnixMicro:
			return n / int64(time.Millisecond/time.Microsecond)
		case zerolog.TimeFormatUnixNano:
			return n / int64(time.Millisecond)
		}
	case fastjson.TypeString:
		if !millisecondLayout(zerolog.TimeFieldFormat) {
			break
		}
		if t, err := time.Parse(zerolog.TimeFieldFormat, string(v.GetStringBytes())); err == nil {
			return couchlog.TimestampOf(t)
		}
	}
	return couchlog.TimestampOf(time.Now())
}

// millisecondLayout reports whether the time layout renders at least 3 fractional second digits
func millisecondLayout(layout string) bool {
	for i := 0; i < len(layout); i++ {
		if layout[i] != '.' && layout[i] != ',' {
			continue
		}
		j := i + 1
		for j < len(layout) && (layout[j] == '0' || layout[j] == '9') {
			j++
		}
		if j-i-1 >= 3 {
			return true
		}
	}
	return false
}

type malformedLine []byte

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (line malformedLine) MarshalZerologObject(e *zerolog.Event) {
	e.Bytes("line", line)
}

type failureObject struct {
	*couchlog.Failure
}

// Failure renders the error as a dictionary that the writer maps to the event failure, preserving the error type name
// and stack trace. Use it with ThrowableKey:
//
//	logger.Error().Object(couchzerolog.ThrowableKey, couchzerolog.Failure(err)).Msg("failed")
func Failure(err error) zerolog.LogObjectMarshaler {
	return failureObject{couchlog.FailureFromError(err)}
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (f failureObject) MarshalZerologObject(e *zerolog.Event) {
	if f.Failure == nil {
		return
	}
	e.Str("className", f.ClassName)
	if f.Message != "" {
		e.Str("message", f.Message)
	}
	e.Str("information", strings.Join(f.Lines, "\n"))
}
