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
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"strings"
)

// envconfig related constants
const (
	// EnvPrefix is the standard env var name prefix, e.g., COUCHLOG_DESTINATION_URL
	EnvPrefix = "COUCHLOG"
)

// config defaults
const (
	DefaultHostIdentifier    = "DEFAULT_HOST"
	DefaultProcessIdentifier = "DEFAULT_PROCESS"
	DefaultThreshold         = ErrorLevel
)

// Config is the exporter configuration. It is set once at startup and is read-only afterwards.
//
// The following env vars are used to load the config:
//
//	${PREFIX}_DESTINATION_URL      required
//	${PREFIX}_HOST_IDENTIFIER      default = DEFAULT_HOST
//	${PREFIX}_PROCESS_IDENTIFIER   default = DEFAULT_PROCESS
//	${PREFIX}_THRESHOLD            default = error
type Config struct {
	// DestinationURL is the full endpoint URL documents are posted to, e.g., http://localhost:5984/error-log
	DestinationURL string `envconfig:"DESTINATION_URL" required:"true"`
	// HostIdentifier is included in every document. If blank, then the field is omitted.
	HostIdentifier string `envconfig:"HOST_IDENTIFIER" default:"DEFAULT_HOST"`
	// ProcessIdentifier is included in every document. If blank, then the field is omitted.
	ProcessIdentifier string `envconfig:"PROCESS_IDENTIFIER" default:"DEFAULT_PROCESS"`
	// Threshold is applied by the host logging framework adapters. The exporter itself exports every event it is handed.
	Threshold Level `envconfig:"THRESHOLD" default:"error"`
}

// NewConfig constructs a new Config using the default identifiers and threshold
func NewConfig(destinationURL string) Config {
	return Config{
		DestinationURL:    destinationURL,
		HostIdentifier:    DefaultHostIdentifier,
		ProcessIdentifier: DefaultProcessIdentifier,
		Threshold:         DefaultThreshold,
	}
}

// SetDestinationURL sets the destination URL
func (c Config) SetDestinationURL(url string) Config {
	c.DestinationURL = url
	return c
}

// SetHostIdentifier sets the host identifier
func (c Config) SetHostIdentifier(host string) Config {
	c.HostIdentifier = host
	return c
}

// SetProcessIdentifier sets the process identifier
func (c Config) SetProcessIdentifier(process string) Config {
	c.ProcessIdentifier = process
	return c
}

// SetThreshold sets the threshold
func (c Config) SetThreshold(threshold Level) Config {
	c.Threshold = threshold
	return c
}

func (c Config) String() string {
	return fmt.Sprintf("Config{DestinationURL=%s, HostIdentifier=%s, ProcessIdentifier=%s, Threshold=%s}",
		c.DestinationURL, c.HostIdentifier, c.ProcessIdentifier, c.Threshold)
}

// Config validation errors
var (
	ErrBlankDestinationURL = errors.New("`DestinationURL` must not be blank")
	ErrInvalidThreshold    = errors.New("`Threshold` must be a valid level")
)

// Validate runs the following checks:
//	- the destination URL is not blank
//	- the threshold is a valid level
//
// The URL itself is not parsed. A malformed URL is reported as a delivery failure.
func (c Config) Validate() error {
	var err error
	if strings.TrimSpace(c.DestinationURL) == "" {
		err = multierr.Append(err, ErrBlankDestinationURL)
	}
	if !c.Threshold.Valid() {
		err = multierr.Append(err, ErrInvalidThreshold)
	}
	return err
}

// LoadConfig loads the config from env vars using the specified prefix. If the prefix is blank, then EnvPrefix is used.
func LoadConfig(prefix string) (Config, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = EnvPrefix
	}
	var config Config
	if err := envconfig.Process(prefix, &config); err != nil {
		return config, errors.Wrap(err, "failed to load config from env")
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}
