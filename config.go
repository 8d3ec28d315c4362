// Copyright 2026 Corvus Labs
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

package skink

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/corvuslabs-io/skink/config/chain"

	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry    prometheus.Registerer
	logger          *slog.Logger
	chainParams     *chain.Params
	dataDir         string
	network         string
	chainConfigPath string
	tracing         bool
	tracingStdout   bool
	shutdownTimeout time.Duration
}

// configPopulateChainParams resolves the chain parameters from the named
// network (or an explicit parameter file) when they were not provided
// directly
func (n *Node) configPopulateChainParams() error {
	if n.config.chainParams != nil {
		return nil
	}
	if n.config.network == "" && n.config.chainConfigPath == "" {
		return errors.New("no network or chain parameters specified")
	}
	params, err := chain.LoadParamsWithFallback(
		n.config.chainConfigPath,
		n.config.network,
	)
	if err != nil {
		return err
	}
	n.config.chainParams = params
	return nil
}

func (n *Node) configValidate() error {
	if n.config.chainParams == nil {
		return errors.New("no chain parameters available")
	}
	if len(n.config.chainParams.GenesisWallets) == 0 {
		return errors.New("chain parameters define no genesis wallets")
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the Node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new skink config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithChainParams specifies the chain parameters to use directly. This
// overrides any named network or chain parameter file
func WithChainParams(params *chain.Params) ConfigOptionFunc {
	return func(c *Config) {
		c.chainParams = params
	}
}

// WithChainConfigPath specifies the path to a chain parameter file. When the
// file does not exist, the embedded parameters for the named network are used
func WithChainConfigPath(path string) ConfigOptionFunc {
	return func(c *Config) {
		c.chainConfigPath = path
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithNetwork specifies the named network to operate on. The embedded chain
// parameters for that network are loaded unless overridden
func WithNetwork(network string) ConfigOptionFunc {
	return func(c *Config) {
		c.network = network
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
