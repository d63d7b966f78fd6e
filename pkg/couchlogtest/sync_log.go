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

// Package couchlogtest is used to support testing
package couchlogtest

import (
	"bufio"
	"bytes"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
	"sync"
)

// SyncLog is used to provide a concurrency safe read/write log.
//
// Use Case: used as the exporter diagnostic log in tests that deliver events from multiple goroutines
type SyncLog struct {
	sync.Mutex
	buf *bytes.Buffer
}

// NewSyncLog constructs a new SyncLog
func NewSyncLog() *SyncLog {
	return &SyncLog{
		buf: new(bytes.Buffer),
	}
}

func (l *SyncLog) Write(data []byte) (int, error) {
	l.Lock()
	defer l.Unlock()
	return l.buf.Write(data)
}

func (l *SyncLog) String() string {
	l.Lock()
	defer l.Unlock()
	return l.buf.String()
}

// Events parses each line as a JSON object
func (l *SyncLog) Events() ([]*fastjson.Value, error) {
	l.Lock()
	data := append([]byte(nil), l.buf.Bytes()...)
	l.Unlock()
	return ParseLines(data)
}

// ParseLines parses each non-empty line as JSON
func ParseLines(data []byte) ([]*fastjson.Value, error) {
	var values []*fastjson.Value
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		// each value gets its own parser because values are only valid until the next Parse call
		var p fastjson.Parser
		v, err := p.ParseBytes(line)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid JSON line: %s", line)
		}
		values = append(values, v)
	}
	return values, scanner.Err()
}

// EventsNamed returns the events whose event type ID field "n" matches
func EventsNamed(events []*fastjson.Value, name string) []*fastjson.Value {
	var matches []*fastjson.Value
	for _, event := range events {
		if string(event.GetStringBytes("n")) == name {
			matches = append(matches, event)
		}
	}
	return matches
}
