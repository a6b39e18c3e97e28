// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// WriteTable renders preference lists one agent per row, with ordinal column
// headers. Tied partners share a cell joined by "=".
func WriteTable(w io.Writer, agents []Agent) error {
	width := 0
	for _, a := range agents {
		if len(a.Prefs) > width {
			width = len(a.Prefs)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, width+1)
	for i := 1; i <= width; i++ {
		header[i] = Ordinal(i)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, a := range agents {
		row := make([]string, width+1)
		row[0] = a.ID
		if a.Capacity > 1 {
			row[0] += " (" + strconv.Itoa(a.Capacity) + ")"
		}
		for i, tier := range a.Prefs {
			row[i+1] = strings.Join(tier, "=")
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// Ordinal returns 1st, 2nd, 3rd, 4th, ..., 11th, 12th, 13th, 21st, ...
func Ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	if n%100 >= 11 && n%100 <= 13 {
		suffix = "th"
	}
	return strconv.Itoa(n) + suffix
}
