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

package couchlogtest

import (
	"github.com/valyala/fastjson"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request is a request received by the DocumentStore
type Request struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// Document parses the request body
func (r Request) Document() (*fastjson.Value, error) {
	return fastjson.ParseBytes(r.Body)
}

// DocumentStore is an HTTP server that records every request and replies with a fixed status, standing in for a
// CouchDB database endpoint.
type DocumentStore struct {
	*httptest.Server

	mu          sync.Mutex
	requests    []Request
	status      int
	connections int
}

// NewDocumentStore starts a new DocumentStore that replies with 201 Created
func NewDocumentStore() *DocumentStore {
	return NewDocumentStoreWithStatus(http.StatusCreated)
}

// NewDocumentStoreWithStatus starts a new DocumentStore that replies with the specified status
func NewDocumentStoreWithStatus(status int) *DocumentStore {
	store := &DocumentStore{status: status}
	store.Server = httptest.NewUnstartedServer(http.HandlerFunc(store.handle))
	store.Server.Config.ConnState = store.connState
	store.Server.Start()
	return store
}

func (s *DocumentStore) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.status)
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (s *DocumentStore) connState(_ net.Conn, state http.ConnState) {
	if state != http.StateNew {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections++
}

// Connections returns the number of TCP connections that were accepted
func (s *DocumentStore) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections
}

// DatabaseURL returns the URL for the specified database
func (s *DocumentStore) DatabaseURL(db string) string {
	return s.URL + "/" + db
}

// Requests returns a copy of the received requests
func (s *DocumentStore) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// UnreachableURL returns a URL that refuses connections
func UnreachableURL() string {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url + "/error-log"
}
