// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/instance"
	"github.com/someonegg/stablematch/telemetry"
)

var errUnstable = errors.New("matching is not stable")

var verifyCmd = &cli.Command{
	Name:    "verify",
	Usage:   "Check a stored matching for blocking pairs",
	Aliases: []string{"v"},
	Flags: []cli.Flag{
		inputFlag,
		outputFlag,
		&cli.StringFlag{
			Name:     "matching",
			Aliases:  []string{"m"},
			Required: true,
			Usage:    "specify the report holding the matching",
		},
	},
	Action: func(ctx *cli.Context) error {
		e := envOf(ctx)
		report, err := doVerify(ctx.Context, e, ctx.String("input"), ctx.String("matching"))
		if err != nil {
			return err
		}
		if err := writeReport(ctx, e, ctx.String("output"), report); err != nil {
			return err
		}
		if len(report.Blocking) > 0 {
			return fmt.Errorf("%w: %d blocking pairs", errUnstable, len(report.Blocking))
		}
		return nil
	},
}

func doVerify(ctx context.Context, e *env, inFile, matchingFile string) (*instance.Report, error) {
	f, err := instance.Load(inFile)
	if err != nil {
		return nil, fmt.Errorf("load instance file failed: %w", err)
	}
	report, err := instance.LoadReport(matchingFile)
	if err != nil {
		return nil, fmt.Errorf("load matching file failed: %w", err)
	}

	ctx, span := telemetry.StartSpan(ctx, "verify")
	defer span.End()

	var v *stablematch.Verdict
	if f.Kind == instance.Roommates {
		r, err := f.Roommates()
		if err != nil {
			return nil, fmt.Errorf("build roommates failed: %w", err)
		}
		v, err = stablematch.VerifyPairing(r, report.PartnersOf())
		if err != nil {
			return nil, fmt.Errorf("verify failed: %w", err)
		}
	} else {
		m, err := f.Market()
		if err != nil {
			return nil, fmt.Errorf("build market failed: %w", err)
		}
		v, err = stablematch.Verify(m, report.MatchingOf())
		if err != nil {
			return nil, fmt.Errorf("verify failed: %w", err)
		}
	}

	e.metrics.RecordBlocking(ctx, len(v.Blocking))
	e.log.InfoContext(ctx, "verified", "kind", f.Kind, "status", v.Status, "blocking", len(v.Blocking))
	report.SetBlocking(v)
	return report, nil
}
