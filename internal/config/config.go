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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "skink.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	Network         string `yaml:"network"`
	ChainConfig     string `yaml:"chainConfig"     envconfig:"config"`
	DatabasePath    string `yaml:"databasePath"                       split_words:"true"`
	SnapshotPath    string `yaml:"snapshotPath"    envconfig:"SKINK_SNAPSHOT_PATH"`
	BindAddr        string `yaml:"bindAddr"                           split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout"                    split_words:"true"`
	MetricsPort     uint   `yaml:"metricsPort"                        split_words:"true"`
	Tracing         bool   `yaml:"tracing"`
	TracingStdout   bool   `yaml:"tracingStdout"                      split_words:"true"`
	// Snapshot load batching (blocks per database transaction)
	LoadBatchSize int `yaml:"loadBatchSize" envconfig:"SKINK_LOAD_BATCH_SIZE"`
	LoadWorkers   int `yaml:"loadWorkers"   envconfig:"SKINK_LOAD_WORKERS"`
}

var globalConfig = &Config{
	Network:         "mainnet",
	DatabasePath:    ".skink",
	BindAddr:        "0.0.0.0",
	MetricsPort:     12901,
	ShutdownTimeout: DefaultShutdownTimeout,
	LoadBatchSize:   500,
	LoadWorkers:     4,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.skink/skink.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".skink", "skink.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/skink/skink.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/skink/skink.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("skink", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
