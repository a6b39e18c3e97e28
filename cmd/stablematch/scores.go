// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/score"
	"github.com/someonegg/stablematch/telemetry"
)

var scoresCmd = &cli.Command{
	Name:  "scores",
	Usage: "Average satisfaction scores over random instances",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:     "size",
			Aliases:  []string{"n"},
			Required: true,
			Usage:    "specify the number of agents per side",
		},
		&cli.IntFlag{
			Name:  "runs",
			Value: 1000,
			Usage: "specify the number of random instances",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "specify the first seed, random.seed when unset",
		},
		&cli.BoolFlag{
			Name:  "roommates",
			Usage: "use roommates instances",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "hide the progress bar",
		},
	},
	Action: func(ctx *cli.Context) error {
		e := envOf(ctx)
		var (
			size = ctx.Int("size")
			runs = ctx.Int("runs")
			seed = e.cfg.Random.Seed
		)
		if ctx.IsSet("seed") {
			seed = ctx.Int64("seed")
		}
		if size <= 0 {
			return errors.New("invalid size")
		}
		if runs <= 0 {
			return errors.New("invalid runs")
		}

		bar := pb.New(runs)
		bar.Output = ctx.App.ErrWriter
		if ctx.Bool("quiet") {
			bar.Output = io.Discard
		}
		bar.Start()

		st, err := doScores(ctx.Context, e, size, runs, seed, ctx.Bool("roommates"), bar.Increment)
		bar.Finish()
		if err != nil {
			return err
		}
		return printScores(ctx.App.Writer, size, st)
	},
}

type scoreStats struct {
	mean     score.Mean
	unstable int
	elapsed  time.Duration
}

// doScores solves runs independent instances seeded seed, seed+1, ...
func doScores(ctx context.Context, e *env, size, runs int, seed int64, roommates bool, step func() int) (*scoreStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "scores",
		attribute.Int("size", size),
		attribute.Int("runs", runs),
		attribute.Bool("roommates", roommates))
	defer span.End()

	st := &scoreStats{}
	start := time.Now()
	for i := 0; i < runs; i++ {
		t := time.Now()
		if roommates {
			r := stablematch.RandomRoommates(size, seed+int64(i))
			p, err := stablematch.Irving(stablematch.Options{}).Pair(r)
			if err != nil {
				return nil, fmt.Errorf("run %d: %w", i, err)
			}
			e.metrics.RecordRun(ctx, "irving", p.Status.String(), p.Proposals, time.Since(t))
			if p.Status == stablematch.Stable {
				st.mean.Add(score.OfPairing(r, p.Partners, score.RoommatesScorer(r)), p.Proposals)
			} else {
				st.unstable++
			}
		} else {
			m := stablematch.RandomMarket(size, seed+int64(i))
			res, err := stablematch.DeferredAcceptance(stablematch.Options{}).Match(m)
			if err != nil {
				return nil, fmt.Errorf("run %d: %w", i, err)
			}
			e.metrics.RecordRun(ctx, "deferred_acceptance", res.Status.String(), res.Proposals, time.Since(t))
			st.mean.Add(score.Of(m, res.Matching, score.RankScorer(m)), res.Proposals)
		}
		step()
	}
	st.elapsed = time.Since(start)

	e.log.InfoContext(ctx, "scores done", "size", size, "runs", runs, "unstable", st.unstable, "elapsed", st.elapsed)
	return st, nil
}

func printScores(w io.Writer, size int, st *scoreStats) error {
	avg := st.mean.Summary()
	_, err := fmt.Fprintf(w,
		"size: %v, runs: %v, unstable: %v, elapsed: %v\n"+
			"proposals: %.2f\n"+
			"proposer score: %.2f, receiver score: %.2f\n"+
			"egalitarian: %.2f, sex equality: %.2f, regret: %.2f\n",
		size, st.mean.Runs+st.unstable, st.unstable, st.elapsed,
		st.mean.MeanProposals(),
		avg.ProposerCost, avg.ReceiverCost,
		avg.Egalitarian, avg.SexEquality, avg.Regret)
	return err
}
