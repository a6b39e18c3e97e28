// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/someonegg/stablematch/config"
	"github.com/someonegg/stablematch/telemetry"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "stablematch",
		Usage:   "Utility for computing and checking stable matchings",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "specify the config.yaml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "specify the log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "specify the log format (text, json)",
			},
			&cli.BoolFlag{
				Name:  "telemetry",
				Usage: "export traces and metrics",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "override a config key (key=value)",
			},
		},
		Metadata: map[string]interface{}{},
		Before:   setup,
		After:    teardown,
		Commands: []*cli.Command{
			solveCmd,
			roommatesCmd,
			verifyCmd,
			randomCmd,
			scoresCmd,
			showCmd,
		},
	}
}

// env is shared by all commands of one run.
type env struct {
	cfg      *config.Config
	log      *slog.Logger
	metrics  *telemetry.SolverMetrics
	shutdown telemetry.ShutdownFunc
}

func envOf(ctx *cli.Context) *env {
	return ctx.App.Metadata["env"].(*env)
}

func setup(ctx *cli.Context) error {
	overrides := ctx.StringSlice("set")
	if ctx.IsSet("log-level") {
		overrides = append(overrides, "log.level="+ctx.String("log-level"))
	}
	if ctx.IsSet("log-format") {
		overrides = append(overrides, "log.format="+ctx.String("log-format"))
	}
	if ctx.Bool("telemetry") {
		overrides = append(overrides, "telemetry.enabled=true")
	}

	cfg, err := config.Load(ctx.String("config"), overrides...)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}

	e := &env{cfg: cfg}
	e.log = telemetry.ConfigureSlog(ctx.App.ErrWriter, cfg.Log.Level, cfg.Log.Format)

	if cfg.Telemetry.Enabled {
		e.shutdown, err = telemetry.InitWithConfig(cfg.Telemetry.ServiceName, ctx.App.Version, telemetry.Config{
			Exporter:     cfg.Telemetry.Exporter,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure: cfg.Telemetry.OTLPInsecure,
			Writer:       ctx.App.ErrWriter,
		})
		if err != nil {
			return fmt.Errorf("init telemetry failed: %w", err)
		}
	}

	e.metrics, err = telemetry.NewSolverMetrics(nil)
	if err != nil {
		return fmt.Errorf("init metrics failed: %w", err)
	}

	ctx.App.Metadata["env"] = e
	return nil
}

func teardown(ctx *cli.Context) error {
	e, ok := ctx.App.Metadata["env"].(*env)
	if !ok || e.shutdown == nil {
		return nil
	}
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.shutdown(c)
}
