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
	"fmt"
	"github.com/oysterpack/couchlog/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"net"
	"net/http"
	"sync"
	"time"
)

// MetricsEndpoint is the metrics HTTP endpoint path
const MetricsEndpoint = "/metrics"

// MetricsServer exposes the exporter metrics via HTTP
type MetricsServer struct {
	server *http.Server

	mutex sync.Mutex
	addr  string
}

// Addr returns the address the server is listening on. It is blank if the server is not running.
func (s *MetricsServer) Addr() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.addr
}

func (s *MetricsServer) setAddr(addr string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.addr = addr
}

func newMetricsServer(lc fx.Lifecycle, opts Opts, logger *zerolog.Logger) *MetricsServer {
	s := &MetricsServer{}
	if opts.MetricsAddr == "" {
		return s
	}

	errorLog := eventlog.MetricsHTTPServerError.NewErrorLogger(logger)
	handler := http.NewServeMux()
	handler.Handle(MetricsEndpoint, promhttp.HandlerFor(opts.gatherer(), promhttp.HandlerOpts{
		ErrorLog:            promhttpErrorLog(errorLog),
		ErrorHandling:       promhttp.ContinueOnError,
		Registry:            opts.registerer(),
		MaxRequestsInFlight: 5,
	}))
	s.server = &http.Server{
		Addr:           opts.MetricsAddr,
		Handler:        handler,
		ReadTimeout:    time.Second,
		WriteTimeout:   5 * time.Second,
		MaxHeaderBytes: 1024,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			listener, err := net.Listen("tcp", s.server.Addr)
			if err != nil {
				return errors.Wrapf(err, "metrics HTTP server failed to listen on: %q", s.server.Addr)
			}
			s.setAddr(listener.Addr().String())
			go func() {
				if err := s.server.Serve(listener); err != http.ErrServerClosed {
					errorLog(nil, err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			defer s.setAddr("")
			return s.server.Shutdown(ctx)
		},
	})

	return s
}

type promhttpErrorLog eventlog.ErrorLogger

// Println implements promhttp.Logger
func (errLog promhttpErrorLog) Println(v ...interface{}) {
	errLog(nil, errors.New(fmt.Sprint(v...)))
}
