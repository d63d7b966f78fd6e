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

package exporter

import (
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"github.com/prometheus/client_golang/prometheus"
	"io"
)

// Opts is used to configure the fx module
type Opts struct {
	// EnvPrefix is used to load the config from env vars, if Config is not set. See couchlog.LoadConfig.
	//
	// If blank, then the default value of "COUCHLOG" will be used
	EnvPrefix string
	// Config - if set, then it will not be loaded from the env
	Config *couchlog.Config

	// DiagnosticLog defaults to os.Stderr
	DiagnosticLog io.Writer

	// Registerer is used to register the exporter metrics - defaults to prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
	// Gatherer is used to serve the metrics - defaults to prometheus.DefaultGatherer
	Gatherer prometheus.Gatherer
	// MetricsAddr is the metrics HTTP server listen address, e.g., ":5050". If blank, then the server is not run.
	MetricsAddr string
}

func (o Opts) registerer() prometheus.Registerer {
	if o.Registerer == nil {
		return prometheus.DefaultRegisterer
	}
	return o.Registerer
}

func (o Opts) gatherer() prometheus.Gatherer {
	if o.Gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return o.Gatherer
}
