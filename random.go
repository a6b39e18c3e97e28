// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"math/rand"
	"strconv"
)

// defaultSeed is used when callers pass seed 0.
const defaultSeed int64 = 1

func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// RandomAgents returns n agents named prefix0..prefix(n-1), each ranking
// all of others in a uniformly random strict order.
func RandomAgents(rng *rand.Rand, prefix string, n int, others []string) []Agent {
	agents := make([]Agent, n)
	for i := range agents {
		perm := rng.Perm(len(others))
		ids := make([]string, len(others))
		for k, j := range perm {
			ids[k] = others[j]
		}
		agents[i] = Agent{ID: prefix + strconv.Itoa(i), Prefs: Strict(ids...)}
	}
	return agents
}

// RandomMarket builds a complete strict one-to-one market of size n. Both
// sides are named 0..n-1. The same seed gives the same market; seed 0 uses a
// fixed default.
func RandomMarket(n int, seed int64) *Market {
	rng := rngFromSeed(seed)
	ids := names(n)
	proposers := RandomAgents(rng, "", n, ids)
	receivers := RandomAgents(rng, "", n, ids)
	m, err := NewMarket(proposers, receivers)
	if err != nil {
		panic(err) // generated lists are always valid
	}
	return m
}

// RandomRoommates builds a complete strict roommates instance of size n.
func RandomRoommates(n int, seed int64) *Roommates {
	rng := rngFromSeed(seed)
	ids := names(n)
	members := make([]Agent, n)
	for i := range members {
		others := make([]string, 0, n)
		others = append(others, ids[:i]...)
		others = append(others, ids[i+1:]...)
		rng.Shuffle(len(others), func(a, b int) { others[a], others[b] = others[b], others[a] })
		members[i] = Agent{ID: ids[i], Prefs: Strict(others...)}
	}
	r, err := NewRoommates(members)
	if err != nil {
		panic(err)
	}
	return r
}

func names(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	return ids
}
