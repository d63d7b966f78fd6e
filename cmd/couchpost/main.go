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

package main

import (
	"flag"
	"fmt"
	"github.com/oysterpack/couchlog/pkg/couchlog"
	"github.com/oysterpack/couchlog/pkg/eventlog"
	"github.com/pkg/errors"
	"os"
	"runtime"
	"strings"
	"time"
)

var (
	url        = flag.String("url", "", "destination database URL - if blank, then the config is loaded from env vars")
	level      = flag.String("level", "error", "event level")
	loggerName = flag.String("logger", "couchpost", "event logger name")
	ndc        = flag.String("ndc", "", "nested diagnostic context")
	host       = flag.String("host", "", "host identifier")
	process    = flag.String("process", "", "process identifier")
	errMsg     = flag.String("err", "", "if set, then an error with the specified message is attached to the event")
	help       = flag.Bool("h", false, "prints help")
)

// used to post a log event to a CouchDB database
//
// Command Line Flags
//  -url destination database URL, e.g., http://localhost:5984/error-log
//  -level event level
//  -logger event logger name
//  -ndc nested diagnostic context
//  -host host identifier
//  -process process identifier
//  -err attaches an error to the event
//
// The remaining args are joined to form the event message.
// Delivery failures are logged to stderr. They do not change the exit code.
func main() {
	flag.Parse()
	if *help {
		fmt.Println(`couchpost is a tool used to post a log event to a CouchDB database

Usage:

   couchpost [-url URL] [-level LEVEL] [-logger NAME] [-ndc NDC] [-err MSG] message...

   when the -url flag is not specified, then the config is loaded from env vars:

   COUCHLOG_DESTINATION_URL
   COUCHLOG_HOST_IDENTIFIER
   COUCHLOG_PROCESS_IDENTIFIER

Flags:`)
		flag.PrintDefaults()
		return
	}

	eventlog.ConfigureZerolog()

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	event, err := newEvent(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	exporter := couchlog.NewExporter(config, couchlog.Opts{DiagnosticLog: os.Stderr})
	defer exporter.Close()
	exporter.Handle(event)
}

func loadConfig() (couchlog.Config, error) {
	var config couchlog.Config
	if *url == "" {
		var err error
		if config, err = couchlog.LoadConfig(couchlog.EnvPrefix); err != nil {
			return config, err
		}
	} else {
		config = couchlog.NewConfig(*url)
	}
	if *host != "" {
		config = config.SetHostIdentifier(*host)
	}
	if *process != "" {
		config = config.SetProcessIdentifier(*process)
	}
	return config, config.Validate()
}

func newEvent(args []string) (couchlog.LogEvent, error) {
	eventLevel, err := couchlog.ParseLevel(*level)
	if err != nil {
		return couchlog.LogEvent{}, err
	}
	event := couchlog.LogEvent{
		Level:      eventLevel,
		LoggerName: *loggerName,
		Message:    strings.Join(args, " "),
		NDC:        *ndc,
		Timestamp:  couchlog.TimestampOf(time.Now()),
	}
	if pc, _, _, ok := runtime.Caller(1); ok {
		event.Location = couchlog.LocationFromPC(pc)
	}
	if *errMsg != "" {
		event.Failure = couchlog.FailureFromError(errors.New(*errMsg))
	}
	return event, nil
}
