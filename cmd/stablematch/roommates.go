// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/instance"
	"github.com/someonegg/stablematch/score"
	"github.com/someonegg/stablematch/telemetry"
)

var roommatesCmd = &cli.Command{
	Name:    "roommates",
	Usage:   "Run Irving's algorithm on a roommates instance",
	Aliases: []string{"r"},
	Flags: []cli.Flag{
		inputFlag,
		outputFlag,
		verifyFlag,
		&cli.BoolFlag{
			Name:  "allow-unpaired",
			Usage: "leave members unpaired instead of failing when lists run out",
		},
	},
	Action: func(ctx *cli.Context) error {
		e := envOf(ctx)
		verify := e.cfg.Solve.Verify
		if ctx.IsSet("verify") {
			verify = ctx.Bool("verify")
		}

		report, err := doRoommates(ctx.Context, e, ctx.String("input"), ctx.Bool("allow-unpaired"), verify)
		if err != nil {
			return err
		}
		return writeReport(ctx, e, ctx.String("output"), report)
	},
}

func doRoommates(ctx context.Context, e *env, inFile string, allowUnpaired, verify bool) (*instance.Report, error) {
	f, err := instance.Load(inFile)
	if err != nil {
		return nil, fmt.Errorf("load instance file failed: %w", err)
	}
	r, err := f.Roommates()
	if err != nil {
		return nil, fmt.Errorf("build roommates failed: %w", err)
	}

	const engine = "irving"
	ctx, span := telemetry.StartSpan(ctx, engine,
		attribute.Int("members", len(r.IDs())),
		attribute.Bool("allow_unpaired", allowUnpaired))
	defer span.End()

	start := time.Now()
	p, err := stablematch.Irving(stablematch.Options{Logger: e.log, AllowUnpaired: allowUnpaired}).Pair(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("irving failed: %w", err)
	}
	e.metrics.RecordRun(ctx, engine, p.Status.String(), p.Proposals, time.Since(start))
	e.log.InfoContext(ctx, "solved", "kind", f.Kind, "status", p.Status, "proposals", p.Proposals)

	report := instance.NewPairingReport(p)
	if p.Status != stablematch.Stable {
		return report, nil
	}

	summ := score.OfPairing(r, p.Partners, score.RoommatesScorer(r))
	report.Scores = &summ

	if verify {
		v, err := stablematch.VerifyPairing(r, p.Partners)
		if err != nil {
			return nil, fmt.Errorf("verify result failed: %w", err)
		}
		e.metrics.RecordBlocking(ctx, len(v.Blocking))
		report.SetBlocking(v)
		if v.Status != stablematch.Stable {
			return nil, fmt.Errorf("%w: result has %d blocking pairs", stablematch.ErrInternalInvariant, len(v.Blocking))
		}
	}
	return report, nil
}
