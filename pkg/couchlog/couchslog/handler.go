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

// Package couchslog registers the exporter with log/slog as a slog.Handler.
//
// The nested diagnostic context is read from the context passed to the logging call, see package ndc:
//
//	logger := slog.New(couchslog.NewHandler(exporter, couchslog.Opts{Threshold: config.Threshold})).With(couchslog.LoggerNameKey, "com.example.Foo")
//	logger.ErrorContext(ndc.Push(ctx, "req-1"), "failed", "err", err)
package couchslog

import (
	"context"
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"github.com/oysterpack/couchlog/pkg/ndc"
	"log/slog"
	"time"
)

// attribute keys, only recognized outside of groups
const (
	LoggerNameKey = "logger"
	NDCKey        = "ndc"
)

// Opts are used to configure the handler
type Opts struct {
	// Threshold - records below the threshold are not enabled
	Threshold couchlog.Level
}

type attr struct {
	slog.Attr
	grouped bool
}

// Handler is a slog.Handler that exports records
type Handler struct {
	handler   couchlog.Handler
	threshold couchlog.Level
	attrs     []attr
	groups    []string
}

var _ slog.Handler = &Handler{}

// NewHandler constructs a new Handler
func NewHandler(handler couchlog.Handler, opts Opts) *Handler {
	return &Handler{
		handler:   handler,
		threshold: opts.Threshold,
	}
}

// Level maps a slog level to a couchlog level
func Level(level slog.Level) couchlog.Level {
	switch {
	case level < slog.LevelDebug:
		return couchlog.TraceLevel
	case level < slog.LevelInfo:
		return couchlog.DebugLevel
	case level < slog.LevelWarn:
		return couchlog.InfoLevel
	case level < slog.LevelError:
		return couchlog.WarnLevel
	case level < slog.LevelError+4:
		return couchlog.ErrorLevel
	default:
		return couchlog.FatalLevel
	}
}

// Enabled implements slog.Handler
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return Level(level).Enabled(h.threshold)
}

// Handle implements slog.Handler. It never returns an error.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Enabled(ctx, r.Level) {
		return nil
	}

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	event := couchlog.LogEvent{
		Level:     Level(r.Level),
		Message:   r.Message,
		Location:  couchlog.LocationFromPC(r.PC),
		NDC:       ndc.Get(ctx),
		Timestamp: couchlog.TimestampOf(t),
	}

	for _, a := range h.attrs {
		apply(&event, a.Attr, a.grouped)
	}
	grouped := len(h.groups) > 0
	r.Attrs(func(a slog.Attr) bool {
		apply(&event, a, grouped)
		return true
	})

	h.handler.Handle(event)
	return nil
}

// the first error wins, the last logger name and ndc win
func apply(event *couchlog.LogEvent, a slog.Attr, grouped bool) {
	value := a.Value.Resolve()
	switch value.Kind() {
	case slog.KindGroup:
		for _, member := range value.Group() {
			apply(event, member, true)
		}
	case slog.KindString:
		if grouped {
			return
		}
		switch a.Key {
		case LoggerNameKey:
			event.LoggerName = value.String()
		case NDCKey:
			event.NDC = value.String()
		}
	case slog.KindAny:
		if err, ok := value.Any().(error); ok && event.Failure == nil {
			event.Failure = couchlog.FailureFromError(err)
		}
	}
}

// WithAttrs implements slog.Handler
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = make([]attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, attr{Attr: a, grouped: len(h.groups) > 0})
	}
	return &h2
}

// WithGroup implements slog.Handler
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string(nil), h.groups...), name)
	return &h2
}
