// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfg

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	AppName string `yaml:"app-name"`

	GcsAuth GcsAuthConfig `yaml:"gcs-auth"`

	GcsConnection GcsConnectionConfig `yaml:"gcs-connection"`

	Logging LoggingConfig `yaml:"logging"`

	Metrics MetricsConfig `yaml:"metrics"`

	Monitoring MonitoringConfig `yaml:"monitoring"`

	Output OutputConfig `yaml:"output"`

	Read ReadConfig `yaml:"read"`
}

type GcsAuthConfig struct {
	AccessToken string `yaml:"access-token"`

	KeyFile ResolvedPath `yaml:"key-file"`

	ReuseTokenFromUrl bool `yaml:"reuse-token-from-url"`

	TokenUrl string `yaml:"token-url"`
}

type GcsConnectionConfig struct {
	BillingProject string `yaml:"billing-project"`

	ClientProtocol Protocol `yaml:"client-protocol"`

	CustomEndpoint string `yaml:"custom-endpoint"`

	HttpClientTimeout time.Duration `yaml:"http-client-timeout"`

	LimitBytesPerSec float64 `yaml:"limit-bytes-per-sec"`

	LimitOpsPerSec float64 `yaml:"limit-ops-per-sec"`

	MaxConnsPerHost int64 `yaml:"max-conns-per-host"`

	MaxIdleConnsPerHost int64 `yaml:"max-idle-conns-per-host"`
}

type LogRotateLoggingConfig struct {
	BackupFileCount int64 `yaml:"backup-file-count"`

	Compress bool `yaml:"compress"`

	MaxFileSizeMb int64 `yaml:"max-file-size-mb"`
}

type LoggingConfig struct {
	FilePath ResolvedPath `yaml:"file-path"`

	Format string `yaml:"format"`

	LogRotate LogRotateLoggingConfig `yaml:"log-rotate"`

	Severity LogSeverity `yaml:"severity"`
}

type MetricsConfig struct {
	CloudMetricsExportIntervalSecs int64 `yaml:"cloud-metrics-export-interval-secs"`

	PrometheusPort int64 `yaml:"prometheus-port"`
}

type MonitoringConfig struct {
	ExperimentalTracingMode string `yaml:"experimental-tracing-mode"`

	ExperimentalTracingProjectId string `yaml:"experimental-tracing-project-id"`

	ExperimentalTracingSamplingRatio float64 `yaml:"experimental-tracing-sampling-ratio"`
}

type OutputConfig struct {
	Dir ResolvedPath `yaml:"dir"`

	Verify bool `yaml:"verify"`
}

type ReadConfig struct {
	BufferSize ByteSize `yaml:"buffer-size"`

	MaxParallelDownloads int64 `yaml:"max-parallel-downloads"`
}

// BindFlags declares every flag on flagSet and binds it to its config key in v.
func BindFlags(v *viper.Viper, flagSet *pflag.FlagSet) error {
	type binding struct {
		key  string
		flag string
	}
	var bindings []binding
	bind := func(key, flag string) { bindings = append(bindings, binding{key, flag}) }

	flagSet.StringP("app-name", "", "", "The application name appended to the user-agent of GCS requests.")
	bind("app-name", "app-name")

	flagSet.StringP("access-token", "", "", "A short-lived OAuth2 access token used as-is for every request. Takes precedence over token-url and key-file.")
	bind("gcs-auth.access-token", "access-token")

	flagSet.StringP("key-file", "", "", "Absolute path to JSON key file for use with GCS. If not provided, Application Default Credentials are used.")
	bind("gcs-auth.key-file", "key-file")

	flagSet.BoolP("reuse-token-from-url", "", true, "If false, the token acquired from token-url is not reused.")
	bind("gcs-auth.reuse-token-from-url", "reuse-token-from-url")

	flagSet.StringP("token-url", "", "", "A url for getting an access token when the key-file is absent.")
	bind("gcs-auth.token-url", "token-url")

	flagSet.StringP("billing-project", "", "", "Project to use for billing when accessing a bucket enabled with \"Requester Pays\".")
	bind("gcs-connection.billing-project", "billing-project")

	flagSet.StringP("client-protocol", "", "http1", "The protocol used for metadata calls to the GCS backend. Value can be 'http1' (HTTP/1.1), 'http2' (HTTP/2) or 'grpc'.")
	bind("gcs-connection.client-protocol", "client-protocol")

	flagSet.StringP("custom-endpoint", "", "", "Specifies an alternative endpoint for fetching data. Authentication is disabled when set.")
	bind("gcs-connection.custom-endpoint", "custom-endpoint")

	flagSet.DurationP("http-client-timeout", "", 0, "The time duration that http client will wait to get response from the server. The default value 0 indicates no timeout.")
	bind("gcs-connection.http-client-timeout", "http-client-timeout")

	flagSet.Float64P("limit-bytes-per-sec", "", -1, "Bandwidth limit for reading data, measured over a 30-second window. The default is -1 (no limit).")
	bind("gcs-connection.limit-bytes-per-sec", "limit-bytes-per-sec")

	flagSet.Float64P("limit-ops-per-sec", "", -1, "Operations per second limit for range requests. The default is -1 (no limit).")
	bind("gcs-connection.limit-ops-per-sec", "limit-ops-per-sec")

	flagSet.IntP("max-conns-per-host", "", 0, "The max number of TCP connections allowed per server. The default value 0 indicates no limit.")
	bind("gcs-connection.max-conns-per-host", "max-conns-per-host")

	flagSet.IntP("max-idle-conns-per-host", "", 100, "The number of maximum idle connections allowed per server.")
	bind("gcs-connection.max-idle-conns-per-host", "max-idle-conns-per-host")

	flagSet.StringP("log-file", "", "", "The file for storing logs. When not provided, logs are printed to stderr.")
	bind("logging.file-path", "log-file")

	flagSet.StringP("log-format", "", "json", "The format of the log file: 'text' or 'json'.")
	bind("logging.format", "log-format")

	flagSet.IntP("log-rotate-backup-file-count", "", 10, "The maximum number of backup log files to retain after they have been rotated. 0 retains all backups.")
	bind("logging.log-rotate.backup-file-count", "log-rotate-backup-file-count")

	flagSet.BoolP("log-rotate-compress", "", true, "Controls whether the rotated log files should be compressed using gzip.")
	bind("logging.log-rotate.compress", "log-rotate-compress")

	flagSet.IntP("log-rotate-max-file-size-mb", "", 512, "The maximum size in megabytes that a log file can reach before it is rotated.")
	bind("logging.log-rotate.max-file-size-mb", "log-rotate-max-file-size-mb")

	flagSet.StringP("log-severity", "", "info", "Specifies the logging severity expressed as one of [trace, debug, info, warning, error, off]")
	bind("logging.severity", "log-severity")

	flagSet.IntP("cloud-metrics-export-interval-secs", "", 0, "Specifies the interval at which the metrics are uploaded to cloud monitoring. 0 disables the export.")
	bind("metrics.cloud-metrics-export-interval-secs", "cloud-metrics-export-interval-secs")

	flagSet.IntP("prometheus-port", "", 0, "Expose Prometheus metrics endpoint on this port and a path of /metrics. 0 disables the endpoint.")
	bind("metrics.prometheus-port", "prometheus-port")

	flagSet.StringP("experimental-tracing-mode", "", "", "Experimental: specify the tracing mode: 'stdout' or 'gcptrace'. Empty disables tracing.")
	bind("monitoring.experimental-tracing-mode", "experimental-tracing-mode")

	flagSet.StringP("experimental-tracing-project-id", "", "", "Experimental: the project the traces are exported to when the mode is gcptrace.")
	bind("monitoring.experimental-tracing-project-id", "experimental-tracing-project-id")

	flagSet.Float64P("experimental-tracing-sampling-ratio", "", 0, "Experimental: the fraction of traces exported when the mode is gcptrace.")
	bind("monitoring.experimental-tracing-sampling-ratio", "experimental-tracing-sampling-ratio")

	flagSet.StringP("output-dir", "", "", "Directory the objects are written to, one file per object. When empty, objects are written to stdout in argument order.")
	bind("output.dir", "output-dir")

	flagSet.BoolP("verify", "", false, "Compare the CRC32C of the streamed bytes with the object metadata.")
	bind("output.verify", "verify")

	flagSet.StringP("buffer-size", "", "10MiB", "Size of the window fetched by each range request. Accepts a byte count or a KiB/MiB/GiB suffix.")
	bind("read.buffer-size", "buffer-size")

	flagSet.IntP("max-parallel-downloads", "", DefaultMaxParallelDownloads(), "Maximum number of objects streamed concurrently into output-dir.")
	bind("read.max-parallel-downloads", "max-parallel-downloads")

	for _, b := range bindings {
		if err := v.BindPFlag(b.key, flagSet.Lookup(b.flag)); err != nil {
			return err
		}
	}
	return nil
}
