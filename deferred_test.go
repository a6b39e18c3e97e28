// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1. hand traced instances
func TestDeferredAcceptance_Basic(t *testing.T) {
	pairs := func() *Market {
		return mustMarket(t,
			[]Agent{makeAgent("A1", "B1", "B2"), makeAgent("A2", "B2", "B1")},
			[]Agent{makeAgent("B1", "A2", "A1"), makeAgent("B2", "A1", "A2")})
	}

	t.Run("TwoByTwo_AProposing", func(t *testing.T) {
		m := pairs()
		res, err := DeferredAcceptance(Options{}).Match(m)
		require.NoError(t, err)

		// A1->B1 held, A2->B2 held: each proposer keeps its first choice
		assert.Equal(t, Stable, res.Status)
		assert.Equal(t, "B1", res.Matching.PartnerOf(Proposers, "A1"))
		assert.Equal(t, "B2", res.Matching.PartnerOf(Proposers, "A2"))
		assert.Equal(t, 2, res.Proposals)
		assert.False(t, res.Weak)
	})

	t.Run("TwoByTwo_BProposing", func(t *testing.T) {
		m := pairs().Swap()
		res, err := DeferredAcceptance(Options{}).Match(m)
		require.NoError(t, err)

		// B1->A2 held, B2->A1 held
		assert.Equal(t, "A2", res.Matching.PartnerOf(Proposers, "B1"))
		assert.Equal(t, "A1", res.Matching.PartnerOf(Proposers, "B2"))
		assert.Equal(t, "B2", res.Matching.PartnerOf(Receivers, "A1"))
		assert.Equal(t, "B1", res.Matching.PartnerOf(Receivers, "A2"))

		v, err := Verify(m, res.Matching)
		require.NoError(t, err)
		assert.Equal(t, Stable, v.Status)
	})

	t.Run("Book", func(t *testing.T) {
		m := bookMarket(t)
		res, err := DeferredAcceptance(Options{}).Match(m)
		require.NoError(t, err)

		want := map[string]string{"A": "d", "B": "a", "C": "b", "D": "c"}
		for p, r := range want {
			assert.Equal(t, r, res.Matching.PartnerOf(Proposers, p), p)
			assert.Equal(t, p, res.Matching.PartnerOf(Receivers, r), r)
		}
		// A: c, b, d   B: b, a   C: b   D: c
		assert.Equal(t, 7, res.Proposals)
	})

	t.Run("Empty", func(t *testing.T) {
		m := mustMarket(t, nil, nil)
		res, err := DeferredAcceptance(Options{}).Match(m)
		require.NoError(t, err)
		assert.Equal(t, Stable, res.Status)
		assert.Empty(t, res.Matching.Proposers)
		assert.Equal(t, 0, res.Proposals)
	})
}

// 2. incomplete lists leave agents unassigned
func TestDeferredAcceptance_Unassigned(t *testing.T) {
	m := mustMarket(t,
		[]Agent{
			makeAgent("a", "x"),
			makeAgent("b", "x", "y"),
			makeAgent("c"),
		},
		[]Agent{
			makeAgent("x", "a", "b"),
			makeAgent("y", "a"), // b is not acceptable to y
		})

	res, err := DeferredAcceptance(Options{}).Match(m)
	require.NoError(t, err)

	assert.Equal(t, "x", res.Matching.PartnerOf(Proposers, "a"))
	assert.Equal(t, Unassigned, res.Matching.PartnerOf(Proposers, "b"))
	assert.Equal(t, Unassigned, res.Matching.PartnerOf(Proposers, "c"))
	assert.Equal(t, Unassigned, res.Matching.PartnerOf(Receivers, "y"))

	// unassigned agents are present with an empty partner set
	partners, ok := res.Matching.Proposers["c"]
	assert.True(t, ok)
	assert.Empty(t, partners)

	v, err := Verify(m, res.Matching)
	require.NoError(t, err)
	assert.Equal(t, Stable, v.Status)
}

// 3. strict random instances: stability, optimality, bound
func TestDeferredAcceptance_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(5)
		m := RandomMarket(n, rng.Int63())

		res, err := DeferredAcceptance(Options{}).Match(m)
		require.NoError(t, err)
		require.LessOrEqual(t, res.Proposals, m.Len())

		v, err := Verify(m, res.Matching)
		require.NoError(t, err)
		require.Equal(t, Stable, v.Status, "trial %d", trial)
		require.Empty(t, v.Blocking)

		// no stable matching gives any proposer a strictly better partner,
		// nor any receiver a strictly worse one
		perfectMatchings(n, func(perm []int) {
			other := matchingFromPerm(m, perm)
			ov, err := Verify(m, other)
			require.NoError(t, err)
			if ov.Status != Stable {
				return
			}
			for i, j := range perm {
				p, r := m.p.ids[i], m.r.ids[j]
				got := res.Matching.PartnerOf(Proposers, p)
				rOther, _ := m.RankOf(Proposers, p, r)
				rGot, _ := m.RankOf(Proposers, p, got)
				require.GreaterOrEqual(t, rOther, rGot, "proposer %s does better in %v", p, perm)

				mine := res.Matching.PartnerOf(Receivers, r)
				rOther, _ = m.RankOf(Receivers, r, p)
				rMine, _ := m.RankOf(Receivers, r, mine)
				require.LessOrEqual(t, rOther, rMine, "receiver %s does worse in %v", r, perm)
			}
		})
	}
}

func TestDeferredAcceptance_Incomplete(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 200; trial++ {
		n, k := 1+rng.Intn(6), 1+rng.Intn(6)
		pids, rids := names(n), names(k)
		m := mustMarket(t,
			randomIncomplete(rng, "", n, rids),
			randomIncomplete(rng, "", k, pids))

		res, err := DeferredAcceptance(Options{}).Match(m)
		require.NoError(t, err)
		require.LessOrEqual(t, res.Proposals, m.Len())

		v, err := Verify(m, res.Matching)
		require.NoError(t, err)
		require.Equal(t, Stable, v.Status, "trial %d: %v", trial, v.Blocking)
	}
}

// 4. many-to-one
func hospitals(t testing.TB, rng *rand.Rand) *Market {
	residents := names(8)
	hs := []string{"h0", "h1", "h2"}
	rs := RandomAgents(rng, "", len(residents), hs)
	slots := RandomAgents(rng, "h", len(hs), residents)
	slots[0].Capacity = 3
	slots[1].Capacity = 2
	return mustMarket(t, rs, slots)
}

func TestDeferredAcceptance_Hospitals(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for trial := 0; trial < 50; trial++ {
		m := hospitals(t, rng)

		violations := 0
		hook := func(p Proposal, s *State) {
			for _, h := range m.IDs(Receivers) {
				if len(s.Held(Receivers, h)) > m.Capacity(Receivers, h) {
					violations++
				}
			}
			for _, r := range m.IDs(Proposers) {
				if len(s.Held(Proposers, r)) > 1 {
					violations++
				}
			}
		}

		res, err := DeferredAcceptance(Options{OnProposal: hook}).Match(m)
		require.NoError(t, err)
		require.Zero(t, violations, "capacity exceeded mid-run")

		for _, h := range m.IDs(Receivers) {
			require.LessOrEqual(t, len(res.Matching.Receivers[h]), m.Capacity(Receivers, h))
		}

		v, err := Verify(m, res.Matching)
		require.NoError(t, err)
		require.Equal(t, Stable, v.Status, "trial %d: %v", trial, v.Blocking)

		// hospital proposing
		hp := m.Swap()
		res, err = DeferredAcceptance(Options{OnProposal: func(p Proposal, s *State) {
			for _, h := range hp.IDs(Proposers) {
				if len(s.Held(Proposers, h)) > hp.Capacity(Proposers, h) {
					violations++
				}
			}
		}}).Match(hp)
		require.NoError(t, err)
		require.Zero(t, violations)

		v, err = Verify(hp, res.Matching)
		require.NoError(t, err)
		require.Equal(t, Stable, v.Status, "trial %d: %v", trial, v.Blocking)
	}
}

func TestDeferredAcceptance_HospitalsHandTrace(t *testing.T) {
	m := mustMarket(t,
		[]Agent{
			makeAgent("r1", "h1", "h2"),
			makeAgent("r2", "h1", "h2"),
			makeAgent("r3", "h1", "h2"),
		},
		[]Agent{
			makeSlot("h1", 2, "r3", "r2", "r1"),
			makeSlot("h2", 1, "r1", "r2", "r3"),
		})

	var steps []Proposal
	res, err := DeferredAcceptance(Options{OnProposal: func(p Proposal, s *State) {
		steps = append(steps, p)
	}}).Match(m)
	require.NoError(t, err)

	// r1, r2 fill h1; r3 displaces r1; r1 goes to h2
	assert.Equal(t, []Proposal{
		{Proposer: "r1", Receiver: "h1", Accepted: true},
		{Proposer: "r2", Receiver: "h1", Accepted: true},
		{Proposer: "r3", Receiver: "h1", Accepted: true, Rejected: "r1"},
		{Proposer: "r1", Receiver: "h2", Accepted: true},
	}, steps)
	assert.Equal(t, []string{"r3", "r2"}, res.Matching.Receivers["h1"])
	assert.Equal(t, []string{"r1"}, res.Matching.Receivers["h2"])
}

// 5. ties
func TestDeferredAcceptance_Ties(t *testing.T) {
	m := mustMarket(t,
		[]Agent{
			makeAgent("a", "x", "y"),
			makeAgent("b", "x", "y"),
		},
		[]Agent{
			{ID: "x", Prefs: []Tier{{"a", "b"}}},
			{ID: "y", Prefs: []Tier{{"a", "b"}}},
		})

	res, err := DeferredAcceptance(Options{}).Match(m)
	require.NoError(t, err)
	assert.True(t, res.Weak)

	// x is indifferent, so b cannot displace a
	assert.Equal(t, "x", res.Matching.PartnerOf(Proposers, "a"))
	assert.Equal(t, "y", res.Matching.PartnerOf(Proposers, "b"))

	v, err := Verify(m, res.Matching)
	require.NoError(t, err)
	assert.Equal(t, Stable, v.Status)
}

func TestDeferredAcceptance_RandomTies(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tie := func(agents []Agent) []Agent {
		for i := range agents {
			var prefs []Tier
			for _, tier := range agents[i].Prefs {
				if len(prefs) > 0 && rng.Intn(3) == 0 {
					prefs[len(prefs)-1] = append(prefs[len(prefs)-1], tier...)
				} else {
					prefs = append(prefs, tier)
				}
			}
			agents[i].Prefs = prefs
		}
		return agents
	}

	for trial := 0; trial < 200; trial++ {
		n, k := 1+rng.Intn(6), 1+rng.Intn(6)
		m := mustMarket(t,
			tie(randomIncomplete(rng, "", n, names(k))),
			tie(randomIncomplete(rng, "", k, names(n))))

		res, err := DeferredAcceptance(Options{}).Match(m)
		require.NoError(t, err)
		require.Equal(t, m.HasTies(), res.Weak)

		v, err := Verify(m, res.Matching)
		require.NoError(t, err)
		require.Equal(t, Stable, v.Status, "trial %d: %v", trial, v.Blocking)
	}
}

// 6. state, logging and errors
func TestDeferredAcceptance_State(t *testing.T) {
	m := bookMarket(t)

	last := map[string]int{}
	monotonic := true
	_, err := DeferredAcceptance(Options{OnProposal: func(p Proposal, s *State) {
		for _, id := range m.IDs(Proposers) {
			c := s.Cursor(id)
			if c < last[id] {
				monotonic = false
			}
			last[id] = c
		}
		assert.LessOrEqual(t, s.Steps(), m.Len())
	}}).Match(m)
	require.NoError(t, err)
	assert.True(t, monotonic, "cursors never regress")
	assert.Equal(t, 3, last["A"])
}

func TestDeferredAcceptance_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := DeferredAcceptance(Options{Logger: logger}).Match(bookMarket(t))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=proposal")
	assert.Contains(t, buf.String(), "proposals=7")
}

func TestInvariantError(t *testing.T) {
	var err error = &InvariantError{Engine: "deferred acceptance", Steps: 9, Bound: 8}
	assert.True(t, errors.Is(err, ErrInternalInvariant))
	assert.False(t, errors.Is(err, ErrMalformedPreference))
	assert.Equal(t, "stablematch: deferred acceptance exceeded 8 steps (took 9)", err.Error())
}

func BenchmarkDeferredAcceptance(b *testing.B) {
	for _, n := range []int{10, 100, 500} {
		m := RandomMarket(n, 1)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			matcher := DeferredAcceptance(Options{})
			for i := 0; i < b.N; i++ {
				if _, err := matcher.Match(m); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
