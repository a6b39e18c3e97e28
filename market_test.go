// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMarket_Malformed(t *testing.T) {
	cases := []struct {
		name      string
		proposers []Agent
		receivers []Agent
		side      Side
		agent     string
		reason    string
	}{
		{
			name:      "EmptyID",
			proposers: []Agent{makeAgent("", "x")},
			receivers: []Agent{makeAgent("x")},
			side:      Proposers,
			reason:    "empty agent id",
		},
		{
			name:      "DuplicateAgent",
			proposers: []Agent{makeAgent("a", "x"), makeAgent("a", "x")},
			receivers: []Agent{makeAgent("x", "a")},
			side:      Proposers,
			agent:     "a",
			reason:    "duplicate agent",
		},
		{
			name:      "UnknownPartner",
			proposers: []Agent{makeAgent("a", "x", "z")},
			receivers: []Agent{makeAgent("x", "a")},
			side:      Proposers,
			agent:     "a",
			reason:    "ranks unknown agent",
		},
		{
			name:      "ListedTwice",
			proposers: []Agent{makeAgent("a", "x")},
			receivers: []Agent{makeAgent("x", "a", "a")},
			side:      Receivers,
			agent:     "x",
			reason:    "lists more than once",
		},
		{
			name:      "ListedTwiceAcrossTiers",
			proposers: []Agent{{ID: "a", Prefs: []Tier{{"x", "y"}, {"x"}}}},
			receivers: []Agent{makeAgent("x"), makeAgent("y")},
			side:      Proposers,
			agent:     "a",
			reason:    "lists more than once",
		},
		{
			name:      "EmptyTier",
			proposers: []Agent{{ID: "a", Prefs: []Tier{{}}}},
			receivers: []Agent{makeAgent("x")},
			side:      Proposers,
			agent:     "a",
			reason:    "empty tie group",
		},
		{
			name:      "NegativeCapacity",
			proposers: []Agent{makeAgent("a", "x")},
			receivers: []Agent{makeSlot("x", -2, "a")},
			side:      Receivers,
			agent:     "x",
			reason:    "non-positive capacity",
		},
		{
			name:      "ManyToMany",
			proposers: []Agent{makeSlot("a", 2, "x")},
			receivers: []Agent{makeSlot("x", 2, "a")},
			side:      Receivers,
			agent:     "x",
			reason:    "capacity above one on both sides",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := NewMarket(c.proposers, c.receivers)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, ErrMalformedPreference))

			var pe *PreferenceError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, c.side, pe.Side)
			assert.Equal(t, c.agent, pe.Agent)
			assert.Equal(t, c.reason, pe.Reason)
		})
	}
}

func TestMarket_Queries(t *testing.T) {
	m := mustMarket(t,
		[]Agent{
			{ID: "a", Prefs: []Tier{{"x"}, {"y", "z"}}},
			makeAgent("b", "z"),
		},
		[]Agent{
			makeAgent("x", "a"),
			makeSlot("y", 3, "b", "a"),
			makeAgent("z"),
		})

	t.Run("RankOf", func(t *testing.T) {
		r, ok := m.RankOf(Proposers, "a", "x")
		assert.True(t, ok)
		assert.Equal(t, 0, r)

		r, ok = m.RankOf(Proposers, "a", "z")
		assert.True(t, ok)
		assert.Equal(t, 1, r, "tied partners share a rank")

		_, ok = m.RankOf(Proposers, "b", "x")
		assert.False(t, ok, "unlisted partner is unacceptable")

		r, ok = m.RankOf(Receivers, "y", "a")
		assert.True(t, ok)
		assert.Equal(t, 1, r)

		_, ok = m.RankOf(Receivers, "nobody", "a")
		assert.False(t, ok)
	})

	t.Run("NextCandidate", func(t *testing.T) {
		var got []string
		for cursor := 0; ; cursor++ {
			p, ok := m.NextCandidate("a", cursor)
			if !ok {
				break
			}
			got = append(got, p)
		}
		assert.Equal(t, []string{"x", "y", "z"}, got)

		_, ok := m.NextCandidate("a", -1)
		assert.False(t, ok)
		_, ok = m.NextCandidate("b", 1)
		assert.False(t, ok, "exhausted")
	})

	t.Run("Sizes", func(t *testing.T) {
		assert.Equal(t, 4, m.Len())
		assert.True(t, m.HasTies())
		assert.Equal(t, 3, m.Capacity(Receivers, "y"))
		assert.Equal(t, 1, m.Capacity(Receivers, "x"))
		assert.Equal(t, 0, m.Capacity(Receivers, "nobody"))
		assert.Equal(t, []string{"a", "b"}, m.IDs(Proposers))
		assert.Equal(t, []string{"x", "y", "z"}, m.Prefs(Proposers, "a"))
	})

	t.Run("Agents", func(t *testing.T) {
		agents := m.Agents(Proposers)
		require.Len(t, agents, 2)
		assert.Equal(t, []Tier{{"x"}, {"y", "z"}}, agents[0].Prefs)
		assert.Equal(t, 1, agents[0].Capacity)

		again, err := NewMarket(m.Agents(Proposers), m.Agents(Receivers))
		require.NoError(t, err)
		assert.Equal(t, m.Len(), again.Len())
	})

	t.Run("Swap", func(t *testing.T) {
		s := m.Swap()
		assert.Equal(t, []string{"x", "y", "z"}, s.IDs(Proposers))
		assert.Equal(t, 3, s.Capacity(Proposers, "y"))
		r, ok := s.RankOf(Proposers, "y", "a")
		assert.True(t, ok)
		assert.Equal(t, 1, r)
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []string{"a", "b"}, m.IDs(Proposers), "original untouched")
	})
}

func TestNewRoommates_Malformed(t *testing.T) {
	t.Run("RanksItself", func(t *testing.T) {
		_, err := NewRoommates([]Agent{makeAgent("a", "b", "a"), makeAgent("b", "a")})
		require.ErrorIs(t, err, ErrMalformedPreference)
		assert.Contains(t, err.Error(), "ranks itself")
	})

	t.Run("Ties", func(t *testing.T) {
		_, err := NewRoommates([]Agent{
			{ID: "a", Prefs: []Tier{{"b", "c"}}},
			makeAgent("b", "a"),
			makeAgent("c", "a"),
		})
		require.ErrorIs(t, err, ErrMalformedPreference)
		assert.Contains(t, err.Error(), "ties are not supported")
	})

	t.Run("Capacity", func(t *testing.T) {
		_, err := NewRoommates([]Agent{makeSlot("a", 2, "b"), makeAgent("b", "a")})
		require.ErrorIs(t, err, ErrMalformedPreference)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := NewRoommates([]Agent{makeAgent("a", "zz")})
		require.ErrorIs(t, err, ErrMalformedPreference)
	})
}

func TestRoommates_Queries(t *testing.T) {
	r := mustRoommates(t, []Agent{
		makeAgent("A", "B", "C"),
		makeAgent("B", "C"),
		makeAgent("C", "A", "B"),
	})

	rank, ok := r.RankOf("C", "B")
	assert.True(t, ok)
	assert.Equal(t, 1, rank)
	_, ok = r.RankOf("B", "A")
	assert.False(t, ok)

	p, ok := r.NextCandidate("A", 1)
	assert.True(t, ok)
	assert.Equal(t, "C", p)
	_, ok = r.NextCandidate("B", 1)
	assert.False(t, ok)

	assert.Equal(t, 5, r.Len())
	assert.Equal(t, []string{"A", "B", "C"}, r.IDs())
	assert.Equal(t, []string{"A", "B"}, r.Prefs("C"))
	assert.Len(t, r.Agents(), 3)
}
