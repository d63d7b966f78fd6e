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

import (
	"bytes"
	"fmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"io"
	"net/http"
)

// ContentType is the content type of the posted document
const ContentType = "application/json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FailureKind classifies delivery failures
type FailureKind uint8

// FailureKind enum
const (
	// EncodeFailure means the document could not be encoded as JSON
	EncodeFailure FailureKind = iota + 1
	// RequestFailure means the HTTP request could not be constructed, e.g., the URL is malformed
	RequestFailure
	// TransportFailure means the request could not be sent or the response could not be read, e.g., connection refused, timeout
	TransportFailure
	// StatusFailure means the response status was not 2xx
	StatusFailure
)

func (k FailureKind) String() string {
	switch k {
	case EncodeFailure:
		return "encode"
	case RequestFailure:
		return "request"
	case TransportFailure:
		return "transport"
	case StatusFailure:
		return "status"
	default:
		return "unknown"
	}
}

// DeliveryError is returned by Deliver
type DeliveryError struct {
	Kind FailureKind
	URL  string
	// Status is the HTTP response status code - only set for StatusFailure
	Status int
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s failure delivering document to %s: %v", e.Kind, e.URL, e.Err)
}

// Cause implements the pkg/errors causer interface
func (e *DeliveryError) Cause() error {
	return e.Err
}

// Unwrap returns the cause
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (e *DeliveryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("url", e.URL).Str("kind", e.Kind.String())
	if e.Status != 0 {
		event.Int("status", e.Status)
	}
}

// IsDeliveryError returns the *DeliveryError found in the error chain, if any
func IsDeliveryError(err error) (*DeliveryError, bool) {
	var deliveryErr *DeliveryError
	if errors.As(err, &deliveryErr) {
		return deliveryErr, true
	}
	return nil, false
}

// NewClient returns a client that owns its transport and closes its connection after each request.
// No timeout is applied.
func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		},
	}
}

// Deliver encodes the document as UTF-8 JSON and posts it to the URL - exactly once.
//
// The response body is discarded and the connection is closed, even when the client's transport pools connections.
// If client is nil, then NewClient is used.
func Deliver(client *http.Client, url string, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return &DeliveryError{Kind: EncodeFailure, URL: url, Err: errors.Wrap(err, "failed to encode document")}
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Kind: RequestFailure, URL: url, Err: errors.Wrap(err, "failed to create request")}
	}
	req.Header.Set("Content-Type", ContentType)
	req.Close = true

	if client == nil {
		client = NewClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return &DeliveryError{Kind: TransportFailure, URL: url, Err: errors.Wrap(err, "POST failed")}
	}
	defer resp.Body.Close()
	// drain the body to completion before closing
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return &DeliveryError{Kind: TransportFailure, URL: url, Err: errors.Wrap(err, "failed to read response")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DeliveryError{
			Kind:   StatusFailure,
			URL:    url,
			Status: resp.StatusCode,
			Err:    errors.Errorf("unexpected response status: %s", resp.Status),
		}
	}

	return nil
}
