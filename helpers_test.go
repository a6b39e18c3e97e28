// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeAgent(id string, prefs ...string) Agent {
	return Agent{ID: id, Prefs: Strict(prefs...)}
}

func makeSlot(id string, capacity int, prefs ...string) Agent {
	return Agent{ID: id, Prefs: Strict(prefs...), Capacity: capacity}
}

func mustMarket(t testing.TB, proposers, receivers []Agent) *Market {
	t.Helper()
	m, err := NewMarket(proposers, receivers)
	require.NoError(t, err)
	return m
}

func mustRoommates(t testing.TB, members []Agent) *Roommates {
	t.Helper()
	r, err := NewRoommates(members)
	require.NoError(t, err)
	return r
}

// bookMarket is the four couple example of Knuth's "Stable Marriage and Its
// Relation to Other Combinatorial Problems", chapters 1 and 2.
func bookMarket(t testing.TB) *Market {
	return mustMarket(t,
		[]Agent{
			makeAgent("A", "c", "b", "d", "a"),
			makeAgent("B", "b", "a", "c", "d"),
			makeAgent("C", "b", "d", "a", "c"),
			makeAgent("D", "c", "a", "d", "b"),
		},
		[]Agent{
			makeAgent("a", "A", "B", "D", "C"),
			makeAgent("b", "C", "A", "D", "B"),
			makeAgent("c", "C", "B", "D", "A"),
			makeAgent("d", "B", "A", "C", "D"),
		})
}

// randomIncomplete returns n agents ranking a random subset of others.
func randomIncomplete(rng *rand.Rand, prefix string, n int, others []string) []Agent {
	agents := RandomAgents(rng, prefix, n, others)
	for i := range agents {
		agents[i].Prefs = agents[i].Prefs[:rng.Intn(len(agents[i].Prefs)+1)]
	}
	return agents
}

// perfectMatchings enumerates every one-to-one matching of proposers to
// receivers in a complete square market.
func perfectMatchings(n int, emit func(perm []int)) {
	perm := make([]int, n)
	used := make([]bool, n)
	var rec func(k int)
	rec = func(k int) {
		if k == n {
			emit(perm)
			return
		}
		for j := 0; j < n; j++ {
			if !used[j] {
				used[j] = true
				perm[k] = j
				rec(k + 1)
				used[j] = false
			}
		}
	}
	rec(0)
}

func matchingFromPerm(m *Market, perm []int) Matching {
	mt := Matching{Proposers: map[string][]string{}}
	for i, j := range perm {
		mt.Proposers[m.p.ids[i]] = []string{m.r.ids[j]}
	}
	return mt
}
