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
	"context"
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"github.com/oysterpack/couchlog/pkg/couchlog/couchslog"
	"github.com/oysterpack/couchlog/pkg/couchlog/couchzap"
	"github.com/oysterpack/couchlog/pkg/couchlog/couchzerolog"
	"github.com/oysterpack/couchlog/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"
	"io"
	"log/slog"
	"os"
)

// Component is the diagnostic log component name
const Component = "couchlog.exporter"

// DiagnosticLogger is the zerolog logger used to log the module's diagnostic events
type DiagnosticLogger struct {
	*zerolog.Logger
}

// Module returns the module's fx options
func Module(opts Opts) fx.Option {
	diagnosticLog := opts.DiagnosticLog
	if diagnosticLog == nil {
		diagnosticLog = os.Stderr
	}

	return fx.Options(
		fx.Provide(
			func() DiagnosticLogger {
				return DiagnosticLogger{eventlog.NewDiagnosticLogger(diagnosticLog, Component)}
			},
			func() (couchlog.Config, error) {
				if opts.Config == nil {
					return couchlog.LoadConfig(opts.EnvPrefix)
				}
				if err := opts.Config.Validate(); err != nil {
					return couchlog.Config{}, err
				}
				return *opts.Config, nil
			},
			func() (*couchlog.Metrics, error) {
				return couchlog.NewMetrics(opts.registerer())
			},
			func(lc fx.Lifecycle, config couchlog.Config, metrics *couchlog.Metrics, logger DiagnosticLogger) *couchlog.Exporter {
				return newExporter(lc, config, metrics, logger, diagnosticLog)
			},
			func(exporter *couchlog.Exporter) couchlog.Handler {
				return exporter
			},
			func(handler couchlog.Handler, config couchlog.Config) zapcore.Core {
				return couchzap.NewCore(handler, couchzap.LevelEnabler(config.Threshold))
			},
			func(handler couchlog.Handler, config couchlog.Config) *couchzerolog.Writer {
				return couchzerolog.NewWriter(handler, couchzerolog.Opts{
					Threshold:     config.Threshold,
					DiagnosticLog: diagnosticLog,
				})
			},
			func(handler couchlog.Handler, config couchlog.Config) slog.Handler {
				return couchslog.NewHandler(handler, couchslog.Opts{Threshold: config.Threshold})
			},
			func(lc fx.Lifecycle, logger DiagnosticLogger) *MetricsServer {
				return newMetricsServer(lc, opts, logger.Logger)
			},
		),
		// the metrics server is always constructed, in order to register its lifecycle hook
		fx.Invoke(func(*MetricsServer) {}),
	)
}

func newExporter(lc fx.Lifecycle, config couchlog.Config, metrics *couchlog.Metrics, logger DiagnosticLogger, diagnosticLog io.Writer) *couchlog.Exporter {
	exporter := couchlog.NewExporter(config, couchlog.Opts{
		DiagnosticLog: diagnosticLog,
		Metrics:       metrics,
	})
	logStarted := eventlog.ExporterStarted.NewLogger(logger.Logger, zerolog.InfoLevel)
	logStopped := eventlog.ExporterStopped.NewLogger(logger.Logger, zerolog.InfoLevel)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logStarted(exporterInfo(config), "exporter started")
			return nil
		},
		OnStop: func(context.Context) error {
			if err := exporter.Close(); err != nil {
				return errors.Wrap(err, "failed to close exporter")
			}
			logStopped(nil, "exporter stopped")
			return nil
		},
	})
	return exporter
}

type exporterInfo couchlog.Config

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (info exporterInfo) MarshalZerologObject(e *zerolog.Event) {
	e.Str("url", info.DestinationURL).
		Str("threshold", info.Threshold.String())
}
