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
	"github.com/rs/zerolog"
)

// Event is used as an event type ID.
// It must be globally unique - ULIDs are used.
type Event string

func (e Event) String() string {
	return string(e)
}

// diagnostic event type IDs
const (
	// ExportFailed means a document could not be delivered. The document is lost.
	//
	//	type Data struct {
	//		URL    string `json:"url"`
	//		Kind   string `json:"kind"`
	//		Status int    `json:"status"` // only for non-2xx responses
	//		Logger string `json:"logger"`
	//	}
	ExportFailed Event = "01DG7Y3W8Q5PZV0N6TQ2K4M9HB"

	// ExportPanicked means the exporter recovered from a panic while handling an event.
	ExportPanicked Event = "01DG7Y4B1E0JX3CMRS8HF6WDTA"

	// ExportDropped means an event was handled after the exporter was closed.
	ExportDropped Event = "01DG7Y4TMNK2V7A5R9ZQ0XGC3E"

	// MalformedLogLine means a host log line could not be parsed into a log event.
	MalformedLogLine Event = "01DG7Y5AQ4F8WHB2J6NTYD1KPS"

	// ExporterStarted is logged when the exporter fx module is started.
	//
	//	type Data struct {
	//		URL       string `json:"url"`
	//		Threshold string `json:"threshold"`
	//	}
	ExporterStarted Event = "01DG7Y5S3GZC9X4E0MVRB7HTQN"

	// ExporterStopped is logged when the exporter fx module is stopped.
	ExporterStopped Event = "01DG7Y6939DAR5TWKQ8P1NYJ6F"

	// MetricsHTTPServerError means the metrics HTTP server exited with an error.
	MetricsHTTPServerError Event = "01DG7Y6SF1V0KEMB4XP3C8WZAG"
)

// Logger logs an event of a fixed type, with optional event data and tags.
type Logger func(eventData zerolog.LogObjectMarshaler, msg string, tags ...string)

// ErrorLogger logs an error event of a fixed type. The message is derived from the event type.
type ErrorLogger func(eventData zerolog.LogObjectMarshaler, err error, tags ...string)

// NewLogger binds the event type to the logger. Event data is nested under the event type ID:
//
//	{"l":"info","n":"01DG7Y5S3GZC9X4E0MVRB7HTQN","01DG7Y5S3GZC9X4E0MVRB7HTQN":{"url":"http://localhost:5984/error-log"},"z":"01DE379HHNM87XT4PBHXYYBTYS","t":1561328928000,"m":"exporter started"}
func (e Event) NewLogger(logger *zerolog.Logger, level zerolog.Level) Logger {
	eventLogger := ForEvent(logger, e.String())
	return func(eventData zerolog.LogObjectMarshaler, msg string, tags ...string) {
		e.send(eventLogger.WithLevel(level), eventData, tags, msg)
	}
}

// NewErrorLogger is the error level counterpart of NewLogger. The error stack is logged when the error carries one.
func (e Event) NewErrorLogger(logger *zerolog.Logger) ErrorLogger {
	eventLogger := ForEvent(logger, e.String())
	return func(eventData zerolog.LogObjectMarshaler, err error, tags ...string) {
		e.send(eventLogger.Error().Stack().Err(err), eventData, tags, e.message())
	}
}

func (e Event) send(event *zerolog.Event, eventData zerolog.LogObjectMarshaler, tags []string, msg string) {
	if eventData != nil {
		event.Object(e.String(), eventData)
	}
	if len(tags) > 0 {
		event.Strs(Tags, tags)
	}
	event.Msg(msg)
}

func (e Event) message() string {
	switch e {
	case ExportFailed:
		return "export failed"
	case ExportPanicked:
		return "export panicked"
	case MalformedLogLine:
		return "malformed log line"
	case MetricsHTTPServerError:
		return "metrics HTTP server exited with an error"
	default:
		return ""
	}
}
