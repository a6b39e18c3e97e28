// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/instance"
)

var showCmd = &cli.Command{
	Name:  "show",
	Usage: "Print the preference tables of an instance",
	Flags: []cli.Flag{
		inputFlag,
	},
	Action: func(ctx *cli.Context) error {
		f, err := instance.Load(ctx.String("input"))
		if err != nil {
			return fmt.Errorf("load instance file failed: %w", err)
		}
		return doShow(ctx.App.Writer, f)
	},
}

func doShow(w io.Writer, f *instance.File) error {
	if f.Kind == instance.Roommates {
		r, err := f.Roommates()
		if err != nil {
			return err
		}
		return stablematch.WriteTable(w, r.Agents())
	}

	m, err := f.Market()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "proposers")
	if err := stablematch.WriteTable(w, m.Agents(stablematch.Proposers)); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "receivers")
	return stablematch.WriteTable(w, m.Agents(stablematch.Receivers))
}
