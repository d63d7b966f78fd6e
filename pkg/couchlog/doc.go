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

// Package couchlog exports log events as JSON documents to a document store, e.g., a CouchDB database, via HTTP POST.
//
// The exporter is meant for low volume, high severity events, e.g., ERROR and above. It is not optimized for
// performance: each event is delivered synchronously, on the calling goroutine, using a single HTTP POST. Failures are
// never returned to the caller. They are reported on the diagnostic stream (stderr by default) and the document is lost.
//
// Each event is mapped to a document using a fixed set of camelCase fields:
//
//	{
//	  "host": "DEFAULT_HOST",
//	  "process": "DEFAULT_PROCESS",
//	  "level": 40000,
//	  "location": {"className": "...", "fileName": "...", "methodName": "...", "lineNumber": 42},
//	  "loggerName": "com.example.Foo",
//	  "message": "failed",
//	  "ndc": "req-1 user-2",
//	  "throwable": {"className": "...", "message": "...", "information": "..."},
//	  "timestamp": 1700000000000
//	}
//
// The exporter plugs into a host logging framework through the adapters found in the couchzap, couchzerolog, and
// couchslog packages. The host framework is responsible for enforcing the severity threshold.
package couchlog
