// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/instance"
	"github.com/someonegg/stablematch/score"
	"github.com/someonegg/stablematch/telemetry"
)

var (
	inputFlag = &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "specify the input instance (.json, .yaml)",
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "specify the output file, stdout when empty",
	}
	verifyFlag = &cli.BoolFlag{
		Name:  "verify",
		Usage: "check the result for blocking pairs",
	}
)

var solveCmd = &cli.Command{
	Name:    "solve",
	Usage:   "Run deferred acceptance on a marriage or hospitals instance",
	Aliases: []string{"s"},
	Flags: []cli.Flag{
		inputFlag,
		outputFlag,
		verifyFlag,
		&cli.BoolFlag{
			Name:  "receivers-propose",
			Usage: "let the receiving side propose",
		},
	},
	Action: func(ctx *cli.Context) error {
		e := envOf(ctx)
		var (
			inFile           = ctx.String("input")
			outFile          = ctx.String("output")
			verify           = e.cfg.Solve.Verify
			receiversPropose = e.cfg.Solve.ReceiversPropose
		)
		if ctx.IsSet("verify") {
			verify = ctx.Bool("verify")
		}
		if ctx.IsSet("receivers-propose") {
			receiversPropose = ctx.Bool("receivers-propose")
		}

		report, err := doSolve(ctx.Context, e, inFile, receiversPropose, verify)
		if err != nil {
			return err
		}
		return writeReport(ctx, e, outFile, report)
	},
}

func doSolve(ctx context.Context, e *env, inFile string, receiversPropose, verify bool) (*instance.Report, error) {
	f, err := instance.Load(inFile)
	if err != nil {
		return nil, fmt.Errorf("load instance file failed: %w", err)
	}
	m, err := f.Market()
	if err != nil {
		return nil, fmt.Errorf("build market failed: %w", err)
	}

	proposing := m
	if receiversPropose {
		proposing = m.Swap()
	}

	const engine = "deferred_acceptance"
	ctx, span := telemetry.StartSpan(ctx, engine,
		attribute.String("kind", string(f.Kind)),
		attribute.Int("proposers", len(proposing.IDs(stablematch.Proposers))),
		attribute.Int("receivers", len(proposing.IDs(stablematch.Receivers))),
		attribute.Bool("receivers_propose", receiversPropose))
	defer span.End()

	start := time.Now()
	res, err := stablematch.DeferredAcceptance(stablematch.Options{Logger: e.log}).Match(proposing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("deferred acceptance failed: %w", err)
	}
	e.metrics.RecordRun(ctx, engine, res.Status.String(), res.Proposals, time.Since(start))

	if receiversPropose {
		res.Matching = stablematch.Matching{
			Proposers: res.Matching.Receivers,
			Receivers: res.Matching.Proposers,
		}
	}

	report := instance.NewReport(f.Kind, res)
	summ := score.Of(m, res.Matching, score.RankScorer(m))
	report.Scores = &summ
	e.log.InfoContext(ctx, "solved", "kind", f.Kind, "proposals", res.Proposals, "weak", res.Weak, "egalitarian", summ.Egalitarian)

	if verify {
		v, err := stablematch.Verify(m, res.Matching)
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

func outputFormat(e *env) instance.Format {
	return instance.Format(strings.ToLower(e.cfg.Output.Format))
}

func writeReport(ctx *cli.Context, e *env, file string, report *instance.Report) error {
	if file == "" || file == "-" {
		return instance.Encode(ctx.App.Writer, report, outputFormat(e))
	}
	if err := instance.SaveReport(file, report); err != nil {
		return fmt.Errorf("write report file failed: %w", err)
	}
	return nil
}

func writeInstance(ctx *cli.Context, e *env, file string, f *instance.File) error {
	if file == "" || file == "-" {
		return instance.Encode(ctx.App.Writer, f, outputFormat(e))
	}
	if err := instance.Save(file, f); err != nil {
		return fmt.Errorf("write instance file failed: %w", err)
	}
	return nil
}
