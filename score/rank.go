// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package score

import (
	"github.com/someonegg/stablematch"
)

type depthKey struct {
	side stablematch.Side
	id   string
}

type marketRanks struct {
	m     *stablematch.Market
	depth map[depthKey]int
}

// RankScorer prices a partner by its tier index in the agent's list. An
// unlisted partner costs as much as an empty slot.
func RankScorer(m *stablematch.Market) Scorer {
	s := &marketRanks{m: m, depth: make(map[depthKey]int)}
	for _, side := range []stablematch.Side{stablematch.Proposers, stablematch.Receivers} {
		for _, a := range m.Agents(side) {
			s.depth[depthKey{side, a.ID}] = len(a.Prefs)
		}
	}
	return s
}

func (s *marketRanks) Cost(side stablematch.Side, agent, partner string) float64 {
	if partner != stablematch.Unassigned {
		if rank, ok := s.m.RankOf(side, agent, partner); ok {
			return float64(rank)
		}
	}
	return float64(s.depth[depthKey{side, agent}])
}

type roommateRanks struct {
	r     *stablematch.Roommates
	depth map[string]int
}

// RoommatesScorer is RankScorer for a one-sided instance; side is ignored.
func RoommatesScorer(r *stablematch.Roommates) Scorer {
	s := &roommateRanks{r: r, depth: make(map[string]int)}
	for _, a := range r.Agents() {
		s.depth[a.ID] = len(a.Prefs)
	}
	return s
}

func (s *roommateRanks) Cost(_ stablematch.Side, agent, partner string) float64 {
	if partner != stablematch.Unassigned {
		if rank, ok := s.r.RankOf(agent, partner); ok {
			return float64(rank)
		}
	}
	return float64(s.depth[agent])
}

// Of scores a two-sided matching. Every slot counts: a receiver with capacity
// three and one partner pays for two empty slots.
func Of(m *stablematch.Market, mt stablematch.Matching, s Scorer) Summary {
	receivers := mt.Receivers
	if receivers == nil {
		receivers = make(map[string][]string)
		for p, partners := range mt.Proposers {
			for _, r := range partners {
				receivers[r] = append(receivers[r], p)
			}
		}
	}

	var summ Summary
	summ.ProposerCost = sideCost(m, stablematch.Proposers, mt.Proposers, s, &summ)
	summ.ReceiverCost = sideCost(m, stablematch.Receivers, receivers, s, &summ)
	summ.finish()
	return summ
}

func sideCost(m *stablematch.Market, side stablematch.Side, held map[string][]string, s Scorer, summ *Summary) float64 {
	total := 0.0
	for _, id := range m.IDs(side) {
		partners := held[id]
		if len(partners) == 0 {
			summ.Unmatched++
		}
		for _, p := range partners {
			c := s.Cost(side, id, p)
			total += c
			if c > summ.Regret {
				summ.Regret = c
			}
		}
		if rest := m.Capacity(side, id) - len(partners); rest > 0 {
			total += float64(rest) * s.Cost(side, id, stablematch.Unassigned)
		}
	}
	return total
}

// OfPairing scores a roommates pairing. All cost lands in ProposerCost.
func OfPairing(r *stablematch.Roommates, partners map[string]string, s Scorer) Summary {
	var summ Summary
	for _, id := range r.IDs() {
		p := partners[id]
		c := s.Cost(stablematch.Members, id, p)
		summ.ProposerCost += c
		if p == stablematch.Unassigned {
			summ.Unmatched++
		} else if c > summ.Regret {
			summ.Regret = c
		}
	}
	summ.finish()
	return summ
}
