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

import "strings"

// Document is the JSON document that is posted for each event. It is built once per event and never mutated.
type Document struct {
	Host       string             `json:"host,omitempty"`
	Process    string             `json:"process,omitempty"`
	Level      int                `json:"level,omitempty"`
	Location   *DocumentLocation  `json:"location,omitempty"`
	LoggerName string             `json:"loggerName"`
	Message    string             `json:"message"`
	NDC        string             `json:"ndc,omitempty"`
	Throwable  *DocumentThrowable `json:"throwable,omitempty"`
	Timestamp  int64              `json:"timestamp"`
}

// DocumentLocation is the document's call site
type DocumentLocation struct {
	ClassName  string `json:"className"`
	FileName   string `json:"fileName"`
	MethodName string `json:"methodName"`
	LineNumber int    `json:"lineNumber"`
}

// DocumentThrowable is the document's failure
type DocumentThrowable struct {
	ClassName   string `json:"className"`
	Message     string `json:"message,omitempty"`
	Information string `json:"information"`
}

// BuildDocument maps the event to a document.
//
// host and process are set from the config, unless blank. level is omitted for NoLevel, ndc is omitted when empty, and
// location and throwable are only set when the event carries them.
func BuildDocument(event LogEvent, config Config) Document {
	doc := Document{
		Host:       config.HostIdentifier,
		Process:    config.ProcessIdentifier,
		Level:      int(event.Level),
		LoggerName: event.LoggerName,
		Message:    event.Message,
		NDC:        event.NDC,
		Timestamp:  event.Timestamp,
	}

	if loc := event.Location; loc != nil {
		doc.Location = &DocumentLocation{
			ClassName:  loc.ClassName,
			FileName:   loc.FileName,
			MethodName: loc.MethodName,
			LineNumber: loc.LineNumber,
		}
	}

	if failure := event.Failure; failure != nil {
		doc.Throwable = &DocumentThrowable{
			ClassName:   failure.ClassName,
			Message:     failure.Message,
			Information: strings.Join(failure.Lines, "\n"),
		}
	}

	return doc
}
