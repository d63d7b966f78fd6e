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
	"github.com/oysterpack/couchlog/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// Component is the diagnostic log component name
const Component = "couchlog"

// Handler is the capability interface registered with the host logging framework.
//
// Handle is invoked synchronously, once per event that passed the host's severity threshold. It never fails.
type Handler interface {
	Handle(event LogEvent)
	Close() error
}

// Opts are used to configure the exporter.
// Zero values imply using the default values.
type Opts struct {
	// DiagnosticLog is where delivery failures are reported - default = os.Stderr
	DiagnosticLog io.Writer
	// Metrics are optional
	Metrics *Metrics
	// NewClient is called for each event - default = couchlog.NewClient
	NewClient func() *http.Client
}

// SetDiagnosticLog sets the diagnostic log writer
func (o Opts) SetDiagnosticLog(w io.Writer) Opts {
	o.DiagnosticLog = w
	return o
}

// SetMetrics sets the metrics
func (o Opts) SetMetrics(metrics *Metrics) Opts {
	o.Metrics = metrics
	return o
}

// SetNewClient sets the http.Client factory
func (o Opts) SetNewClient(newClient func() *http.Client) Opts {
	o.NewClient = newClient
	return o
}

// Exporter maps each event to a document and posts it to the configured destination URL.
//
// The exporter holds no state across events besides its immutable config. It is safe for concurrent use. Concurrent
// events are delivered independently, in no particular order.
type Exporter struct {
	config    Config
	newClient func() *http.Client
	metrics   *Metrics
	closed    atomic.Bool

	logExportFailed   eventlog.ErrorLogger
	logExportPanicked eventlog.ErrorLogger
	logExportDropped  eventlog.Logger
}

// NewExporter constructs a new Exporter
func NewExporter(config Config, opts Opts) *Exporter {
	diagnosticLogger := eventlog.NewDiagnosticLogger(opts.DiagnosticLog, Component)

	newClient := opts.NewClient
	if newClient == nil {
		newClient = NewClient
	}

	return &Exporter{
		config:    config,
		newClient: newClient,
		metrics:   opts.Metrics,

		logExportFailed:   eventlog.ExportFailed.NewErrorLogger(diagnosticLogger),
		logExportPanicked: eventlog.ExportPanicked.NewErrorLogger(diagnosticLogger),
		logExportDropped:  eventlog.ExportDropped.NewLogger(diagnosticLogger, zerolog.WarnLevel),
	}
}

// Config returns the exporter config
func (e *Exporter) Config() Config {
	return e.config
}

// Handle builds the event document and delivers it. It blocks until the delivery attempt completes.
//
// Failures, including panics, are reported on the diagnostic log and are never propagated.
func (e *Exporter) Handle(event LogEvent) {
	if e.closed.Load() {
		e.logExportDropped(eventInfo(event), "exporter is closed - event was dropped")
		return
	}

	defer func() {
		if p := recover(); p != nil {
			e.logExportPanicked(eventInfo(event), errors.Errorf("recovered from panic: %v", p))
		}
	}()

	doc := BuildDocument(event, e.config)
	start := time.Now()
	err := Deliver(e.newClient(), e.config.DestinationURL, doc)
	e.metrics.observe(time.Since(start), err)
	if err != nil {
		e.logExportFailed(exportFailure{event: event, err: err}, err)
	}
}

// Close marks the exporter as closed. Events handled afterwards are dropped. Close is idempotent.
func (e *Exporter) Close() error {
	e.closed.Store(true)
	return nil
}

type eventInfo LogEvent

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (info eventInfo) MarshalZerologObject(e *zerolog.Event) {
	e.Str("logger", info.LoggerName).
		Str("level", info.Level.String()).
		Int64("timestamp", info.Timestamp)
}

type exportFailure struct {
	event LogEvent
	err   error
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (f exportFailure) MarshalZerologObject(e *zerolog.Event) {
	eventInfo(f.event).MarshalZerologObject(e)
	if deliveryErr, ok := IsDeliveryError(f.err); ok {
		deliveryErr.MarshalZerologObject(e)
	}
}
