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

// Package eventlog provides the diagnostic stream used to report export failures.
//
// Diagnostic events are JSON lines written by zerolog. When ConfigureZerolog is applied the standard field names
// are shortened:
//  - Timestamp -> t
//  - Level -> l
//  - Message -> m
//  - Error -> e
//  - Stack -> s
//
// Each diagnostic event is tagged with the event type ID via the field "n" and with an event instance ULID via the
// field "z".
package eventlog
