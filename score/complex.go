// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package score

import "github.com/someonegg/stablematch"

type Record struct {
	Key
	Val
}

type Key struct {
	Side    stablematch.Side
	Agent   string
	Partner string
}

type Val struct {
	Cost float64
}

type complexScorer struct {
	orig Scorer
	recs map[Key]Val
}

// NewComplexScorer overrides orig for the listed pairs. A later record for
// the same key wins.
func NewComplexScorer(orig Scorer, records []Record) Scorer {
	recs := make(map[Key]Val)
	for _, rec := range records {
		recs[rec.Key] = rec.Val
	}
	return &complexScorer{
		orig: orig,
		recs: recs,
	}
}

func (s *complexScorer) Cost(side stablematch.Side, agent, partner string) float64 {
	key := Key{Side: side, Agent: agent, Partner: partner}
	if val, ok := s.recs[key]; ok {
		return val.Cost
	}
	return s.orig.Cost(side, agent, partner)
}
