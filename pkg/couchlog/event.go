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

import "time"

// LogEvent is an immutable snapshot of a single log call, as produced by the host logging framework.
type LogEvent struct {
	// Level is NoLevel if the event has no severity
	Level      Level
	LoggerName string
	// Message is already rendered
	Message string
	// Location is the call site. It is nil unless the host captured it.
	Location *Location
	// NDC is the nested diagnostic context
	NDC string
	// Failure is the error associated with the event, if any
	Failure *Failure
	// Timestamp is in milliseconds since the Unix epoch
	Timestamp int64
}

// TimestampOf converts the time into the event timestamp format, i.e., milliseconds since the Unix epoch
func TimestampOf(t time.Time) int64 {
	return t.UnixMilli()
}
