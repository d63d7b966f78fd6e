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

package exporter_test

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"github.com/oysterpack/couchlog/pkg/couchlog/couchslog"
	"github.com/oysterpack/couchlog/pkg/couchlog/couchzerolog"
	"github.com/oysterpack/couchlog/pkg/couchlogtest"
	"github.com/oysterpack/couchlog/pkg/eventlog"
	"github.com/oysterpack/couchlog/pkg/fx/exporter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
)

func TestModule(t *testing.T) {
	store := couchlogtest.NewDocumentStore()
	defer store.Close()

	diagnosticLog := couchlogtest.NewSyncLog()
	registry := prometheus.NewRegistry()
	config := couchlog.NewConfig(store.DatabaseURL("error-log")).SetThreshold(couchlog.WarnLevel)

	var (
		core          zapcore.Core
		writer        *couchzerolog.Writer
		slogHandler   slog.Handler
		metricsServer *exporter.MetricsServer
	)
	app := fxtest.New(t,
		exporter.Module(exporter.Opts{
			Config:        &config,
			DiagnosticLog: diagnosticLog,
			Registerer:    registry,
			Gatherer:      registry,
			MetricsAddr:   "127.0.0.1:0",
		}),
		fx.Populate(&core, &writer, &slogHandler, &metricsServer),
	)
	app.RequireStart()

	zap.New(core).Named("zap").Info("ignored")
	zap.New(core).Named("zap").Error("zap", zap.Error(errors.New("BOOM")))
	zerologLogger := zerolog.New(writer)
	zerologLogger.Warn().Str(couchzerolog.LoggerNameKey, "zerolog").Msg("zerolog")
	slog.New(slogHandler).Warn("slog", couchslog.LoggerNameKey, "slog")

	requests := store.Requests()
	require.Len(t, requests, 3)
	loggers := make(map[string]bool)
	for _, request := range requests {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/error-log", request.Path)
		doc, err := request.Document()
		require.NoError(t, err)
		assert.Equal(t, couchlog.DefaultHostIdentifier, string(doc.GetStringBytes("host")))
		assert.Equal(t, string(doc.GetStringBytes("loggerName")), string(doc.GetStringBytes("message")))
		loggers[string(doc.GetStringBytes("loggerName"))] = true
	}
	assert.Equal(t, map[string]bool{"zap": true, "zerolog": true, "slog": true}, loggers)

	t.Run("metrics are registered", func(t *testing.T) {
		mfs, err := registry.Gather()
		require.NoError(t, err)
		var posted *dto.MetricFamily
		for _, mf := range mfs {
			if mf.GetName() == couchlog.MetricsNamespace+"_"+couchlog.DocumentsPostedMetric {
				posted = mf
			}
		}
		require.NotNil(t, posted)
		assert.Equal(t, dto.MetricType_COUNTER, posted.GetType())
		require.Len(t, posted.Metric, 1)
		assert.Equal(t, float64(3), posted.Metric[0].GetCounter().GetValue())
	})

	t.Run("metrics are served via HTTP", func(t *testing.T) {
		require.NotEmpty(t, metricsServer.Addr())
		resp, err := retryablehttp.Get("http://" + metricsServer.Addr() + exporter.MetricsEndpoint)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "couchlog_documents_posted_total 3")
	})

	app.RequireStop()
	assert.Empty(t, metricsServer.Addr())

	// the exporter is closed when the app is stopped
	slog.New(slogHandler).Error("dropped")
	assert.Len(t, store.Requests(), 3)

	events, err := diagnosticLog.Events()
	require.NoError(t, err)
	assert.Len(t, couchlogtest.EventsNamed(events, eventlog.ExporterStarted.String()), 1)
	assert.Len(t, couchlogtest.EventsNamed(events, eventlog.ExporterStopped.String()), 1)
	assert.Len(t, couchlogtest.EventsNamed(events, eventlog.ExportDropped.String()), 1)
	started := couchlogtest.EventsNamed(events, eventlog.ExporterStarted.String())[0]
	assert.Equal(t, config.DestinationURL, string(started.GetStringBytes(eventlog.ExporterStarted.String(), "url")))
	assert.Equal(t, "WARN", string(started.GetStringBytes(eventlog.ExporterStarted.String(), "threshold")))
}

func TestModule_ConfigFromEnv(t *testing.T) {
	prefix := "T" + eventlog.MonotonicULIDGenerator()().String()

	t.Run("missing destination URL", func(t *testing.T) {
		var config couchlog.Config
		app := fx.New(
			exporter.Module(exporter.Opts{
				EnvPrefix:     prefix,
				DiagnosticLog: io.Discard,
				Registerer:    prometheus.NewRegistry(),
			}),
			fx.Populate(&config),
			fx.NopLogger,
		)
		assert.Error(t, app.Err())
	})

	t.Run("with destination URL", func(t *testing.T) {
		t.Setenv(prefix+"_DESTINATION_URL", "http://localhost:5984/error-log")
		t.Setenv(prefix+"_THRESHOLD", "info")

		var config couchlog.Config
		app := fxtest.New(t,
			exporter.Module(exporter.Opts{
				EnvPrefix:     prefix,
				DiagnosticLog: io.Discard,
				Registerer:    prometheus.NewRegistry(),
			}),
			fx.Populate(&config),
		)
		app.RequireStart()
		defer app.RequireStop()

		assert.Equal(t, "http://localhost:5984/error-log", config.DestinationURL)
		assert.Equal(t, couchlog.InfoLevel, config.Threshold)
		assert.Equal(t, couchlog.DefaultProcessIdentifier, config.ProcessIdentifier)
	})

	t.Run("invalid config", func(t *testing.T) {
		config := couchlog.NewConfig("  ")
		app := fx.New(
			exporter.Module(exporter.Opts{
				Config:        &config,
				DiagnosticLog: io.Discard,
				Registerer:    prometheus.NewRegistry(),
			}),
			fx.Invoke(func(couchlog.Handler) {}),
			fx.NopLogger,
		)
		require.Error(t, app.Err())
		assert.True(t, strings.Contains(app.Err().Error(), couchlog.ErrBlankDestinationURL.Error()), app.Err().Error())
	})
}
