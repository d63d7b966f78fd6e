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
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

// metric names
const (
	MetricsNamespace = "couchlog"

	DocumentsPostedMetric  = "documents_posted_total"
	DeliveryFailuresMetric = "delivery_failures_total"
	DeliveryDurationMetric = "delivery_seconds"

	// FailureKindLabel is the DeliveryFailuresMetric label that holds the FailureKind
	FailureKindLabel = "kind"
)

// Metrics tracks exporter deliveries
type Metrics struct {
	DocumentsPosted  prometheus.Counter
	DeliveryFailures *prometheus.CounterVec
	DeliveryDuration prometheus.Histogram
}

// NewMetrics creates the exporter metrics and registers them
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		DocumentsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      DocumentsPostedMetric,
			Help:      "The number of documents that were successfully posted",
		}),
		DeliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      DeliveryFailuresMetric,
			Help:      "The number of documents that failed to be delivered, by failure kind",
		}, []string{FailureKindLabel}),
		DeliveryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      DeliveryDurationMetric,
			Help:      "Document delivery duration, including failed deliveries",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{m.DocumentsPosted, m.DeliveryFailures, m.DeliveryDuration} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register exporter metrics")
		}
	}

	return m, nil
}

func (m *Metrics) observe(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DeliveryDuration.Observe(duration.Seconds())
	if err == nil {
		m.DocumentsPosted.Inc()
		return
	}
	kind := FailureKind(0)
	if deliveryErr, ok := IsDeliveryError(err); ok {
		kind = deliveryErr.Kind
	}
	m.DeliveryFailures.WithLabelValues(kind.String()).Inc()
}
