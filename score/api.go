// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package score measures how satisfied each side is with a matching.
//
// Costs are ordinal: an agent matched with its first choice pays 0, with its
// k-th tier pays k-1, and an empty slot pays the length of its list. Lower is
// better.
package score

import (
	"math"

	"github.com/someonegg/stablematch"
)

type Scorer interface {
	// Cost is what agent on side pays for partner. partner is
	// stablematch.Unassigned for an empty slot.
	Cost(side stablematch.Side, agent, partner string) float64
}

type Summary struct {
	ProposerCost float64 `json:"proposer_cost" yaml:"proposer_cost"`
	ReceiverCost float64 `json:"receiver_cost" yaml:"receiver_cost"`
	Egalitarian  float64 `json:"egalitarian" yaml:"egalitarian"`
	SexEquality  float64 `json:"sex_equality" yaml:"sex_equality"`
	Regret       float64 `json:"regret" yaml:"regret"`
	Unmatched    int     `json:"unmatched" yaml:"unmatched"`
}

func (s *Summary) finish() {
	s.Egalitarian = s.ProposerCost + s.ReceiverCost
	s.SexEquality = math.Abs(s.ProposerCost - s.ReceiverCost)
}

// Mean averages summaries of independent runs.
type Mean struct {
	Runs      int
	Proposals int
	sum       Summary
}

func (m *Mean) Add(s Summary, proposals int) {
	m.Runs++
	m.Proposals += proposals
	m.sum.ProposerCost += s.ProposerCost
	m.sum.ReceiverCost += s.ReceiverCost
	m.sum.Egalitarian += s.Egalitarian
	m.sum.SexEquality += s.SexEquality
	m.sum.Regret += s.Regret
	m.sum.Unmatched += s.Unmatched
}

// Summary returns the per-run average. Unmatched is rounded down.
func (m *Mean) Summary() Summary {
	if m.Runs == 0 {
		return Summary{}
	}
	n := float64(m.Runs)
	return Summary{
		ProposerCost: m.sum.ProposerCost / n,
		ReceiverCost: m.sum.ReceiverCost / n,
		Egalitarian:  m.sum.Egalitarian / n,
		SexEquality:  m.sum.SexEquality / n,
		Regret:       m.sum.Regret / n,
		Unmatched:    m.sum.Unmatched / m.Runs,
	}
}

func (m *Mean) MeanProposals() float64 {
	if m.Runs == 0 {
		return 0
	}
	return float64(m.Proposals) / float64(m.Runs)
}
