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

/*
Package exporter provides the log exporter as an fx module.

The module provides:
	- couchlog.Config, either from Opts.Config or loaded from env vars using Opts.EnvPrefix
	- *couchlog.Exporter, which is closed when the app is stopped
	- couchlog.Handler, backed by the exporter
	- zapcore.Core, *couchzerolog.Writer, slog.Handler, which register the exporter with each logging framework
	- *MetricsServer, which exposes the exporter metrics via HTTP when Opts.MetricsAddr is set

The host loggers are configured with Config.Threshold.
*/
package exporter
