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

// Package couchzap registers the exporter with zap as a zapcore.Core.
//
// Use zapcore.NewTee to export events in addition to the application's regular log output:
//
//	core := zapcore.NewTee(appCore, couchzap.NewCore(exporter, couchzap.LevelEnabler(config.Threshold)))
//	logger := zap.New(core, zap.AddCaller())
package couchzap

import (
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"runtime"
	"strings"
)

// NDCKey is the field key used to pass the nested diagnostic context, e.g., zap.String(couchzap.NDCKey, ndc.Get(ctx))
const NDCKey = "ndc"

type core struct {
	zapcore.LevelEnabler
	handler couchlog.Handler
	fields  []zapcore.Field
}

// NewCore constructs a new zapcore.Core that hands each enabled entry to the handler.
func NewCore(handler couchlog.Handler, enabler zapcore.LevelEnabler) zapcore.Core {
	return &core{
		LevelEnabler: enabler,
		handler:      handler,
	}
}

// LevelEnabler maps the threshold to a zapcore.LevelEnabler
func LevelEnabler(threshold couchlog.Level) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func(level zapcore.Level) bool {
		return Level(level).Enabled(threshold)
	})
}

// Level maps a zap level to a couchlog level
func Level(level zapcore.Level) couchlog.Level {
	switch {
	case level < zapcore.InfoLevel:
		return couchlog.DebugLevel
	case level == zapcore.InfoLevel:
		return couchlog.InfoLevel
	case level == zapcore.WarnLevel:
		return couchlog.WarnLevel
	case level == zapcore.ErrorLevel:
		return couchlog.ErrorLevel
	default:
		return couchlog.FatalLevel
	}
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return &clone
}

func (c *core) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *core) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	event := couchlog.LogEvent{
		Level:      Level(entry.Level),
		LoggerName: entry.LoggerName,
		Message:    entry.Message,
		Timestamp:  couchlog.TimestampOf(entry.Time),
	}

	if entry.Caller.Defined {
		event.Location = &couchlog.Location{
			ClassName:  couchlog.NA,
			FileName:   entry.Caller.File,
			MethodName: couchlog.NA,
			LineNumber: entry.Caller.Line,
		}
		if entry.Caller.Function != "" {
			event.Location = couchlog.LocationFromFrame(runtime.Frame{
				Function: entry.Caller.Function,
				File:     entry.Caller.File,
				Line:     entry.Caller.Line,
			})
		}
	}

	c.applyFields(&event, c.fields)
	c.applyFields(&event, fields)

	if event.Failure != nil && entry.Stack != "" {
		event.Failure.Lines = append(event.Failure.Lines, strings.Split(entry.Stack, "\n")...)
	}

	c.handler.Handle(event)
	return nil
}

// the last ndc field wins, the first error field wins
func (c *core) applyFields(event *couchlog.LogEvent, fields []zapcore.Field) {
	for _, field := range fields {
		switch {
		case field.Type == zapcore.StringType && field.Key == NDCKey:
			event.NDC = field.String
		case field.Type == zapcore.ErrorType && event.Failure == nil:
			if err, ok := field.Interface.(error); ok {
				event.Failure = couchlog.FailureFromError(err)
			}
		}
	}
}

func (c *core) Sync() error {
	return nil
}
