// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads stablematch settings from defaults, an optional YAML
// file, STABLEMATCH_ environment variables and key=value overrides, in that
// order.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "STABLEMATCH_"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Solve     SolveConfig     `koanf:"solve"`
	Random    RandomConfig    `koanf:"random"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Output    OutputConfig    `koanf:"output"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type SolveConfig struct {
	Verify           bool `koanf:"verify"`
	ReceiversPropose bool `koanf:"receivers_propose"`
}

type RandomConfig struct {
	Seed int64 `koanf:"seed"`
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
	ServiceName  string `koanf:"service_name"`
}

type OutputConfig struct {
	Format string `koanf:"format"` // json, yaml
}

var defaults = map[string]interface{}{
	"log.level":               "info",
	"log.format":              "text",
	"solve.verify":            false,
	"solve.receivers_propose": false,
	"random.seed":             int64(1),
	"telemetry.enabled":       false,
	"telemetry.exporter":      "stdout",
	"telemetry.otlp_endpoint": "localhost:4317",
	"telemetry.otlp_insecure": true,
	"telemetry.service_name":  "stablematch",
	"output.format":           "json",
}

// Load reads path (skipped when empty), then the environment, then each
// "key=value" override.
func Load(path string, overrides ...string) (*Config, error) {
	k := koanf.New(".")

	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file failed: %w", err)
		}
	}

	// STABLEMATCH_SOLVE_RECEIVERS_PROPOSE -> solve.receivers_propose
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	for _, o := range overrides {
		key, val, ok := strings.Cut(o, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q, want key=value", o)
		}
		if err := k.Set(key, strings.TrimSpace(val)); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid output.format %q", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	switch c.Telemetry.Exporter {
	case "stdout", "otlp":
	default:
		return fmt.Errorf("invalid telemetry.exporter %q", c.Telemetry.Exporter)
	}
	return nil
}
