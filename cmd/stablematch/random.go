// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/instance"
)

var randomCmd = &cli.Command{
	Name:  "random",
	Usage: "Generate a random complete instance",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Value: string(instance.Marriage),
			Usage: "specify the instance kind (marriage, roommates)",
		},
		&cli.IntFlag{
			Name:     "size",
			Aliases:  []string{"n"},
			Required: true,
			Usage:    "specify the number of agents per side",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "specify the random seed, random.seed when unset",
		},
		outputFlag,
	},
	Action: func(ctx *cli.Context) error {
		e := envOf(ctx)
		var (
			kind = instance.Kind(ctx.String("kind"))
			size = ctx.Int("size")
			seed = e.cfg.Random.Seed
		)
		if ctx.IsSet("seed") {
			seed = ctx.Int64("seed")
		}
		if size < 0 {
			return errors.New("invalid size")
		}

		var f *instance.File
		switch kind {
		case instance.Marriage:
			f = instance.FromMarket(stablematch.RandomMarket(size, seed))
		case instance.Roommates:
			f = instance.FromRoommates(stablematch.RandomRoommates(size, seed))
		default:
			return fmt.Errorf("invalid kind %q", kind)
		}
		e.log.Debug("generated", "kind", kind, "size", size, "seed", seed)
		return writeInstance(ctx, e, ctx.String("output"), f)
	},
}
