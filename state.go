// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import "sort"

// State is the matching state of one deferred acceptance run. It is owned by
// the running engine; hooks may read it but must not keep it.
type State struct {
	m      *Market
	cursor []int      // per proposer, next unconsidered list position
	held   [2][][]int // held[Proposers][p] receivers, held[Receivers][r] proposers
	steps  int
}

func newState(m *Market) *State {
	s := &State{
		m:      m,
		cursor: make([]int, len(m.p.ids)),
	}
	s.held[Proposers] = make([][]int, len(m.p.ids))
	s.held[Receivers] = make([][]int, len(m.r.ids))
	return s
}

// Cursor returns the next list position the proposer will consider.
func (s *State) Cursor(id string) int {
	i, ok := s.m.p.lookup(id)
	if !ok {
		return 0
	}
	return s.cursor[i]
}

// Held returns the partners currently held by id on side s.
func (s *State) Held(side Side, id string) []string {
	if side != Receivers {
		side = Proposers
	}
	t, o := s.m.side(side)
	i, ok := t.lookup(id)
	if !ok {
		return nil
	}
	held := s.held[side][i]
	ids := make([]string, len(held))
	for k, j := range held {
		ids[k] = o.ids[j]
	}
	return ids
}

// Steps is the number of proposals made so far.
func (s *State) Steps() int {
	return s.steps
}

func (s *State) full(side Side, i int) bool {
	t, _ := s.m.side(side)
	return len(s.held[side][i]) >= t.caps[i]
}

// free reports whether proposer p is below quota and has candidates left.
func (s *State) free(p int) bool {
	return !s.full(Proposers, p) && s.cursor[p] < len(s.m.p.lists[p])
}

func (s *State) hold(p, r int) {
	s.held[Proposers][p] = append(s.held[Proposers][p], r)
	s.held[Receivers][r] = append(s.held[Receivers][r], p)
}

func (s *State) release(p, r int) {
	s.held[Proposers][p] = remove(s.held[Proposers][p], r)
	s.held[Receivers][r] = remove(s.held[Receivers][r], p)
}

// worst returns the held proposer that receiver r likes least. Among equally
// ranked proposers the most recently held one is chosen.
func (s *State) worst(r int) int {
	w := -1
	for _, p := range s.held[Receivers][r] {
		if w < 0 || s.m.r.rank[r][p] >= s.m.r.rank[r][w] {
			w = p
		}
	}
	return w
}

func (s *State) freeze() Matching {
	return Matching{
		Proposers: partnerMap(s.m.p, s.m.r, s.held[Proposers]),
		Receivers: partnerMap(s.m.r, s.m.p, s.held[Receivers]),
	}
}

// partnerMap lists each agent's partners in its own preference order.
func partnerMap(t, o *table, held [][]int) map[string][]string {
	mp := make(map[string][]string, len(t.ids))
	for i, partners := range held {
		sorted := append([]int(nil), partners...)
		sort.SliceStable(sorted, func(a, b int) bool {
			ra, rb := t.rank[i][sorted[a]], t.rank[i][sorted[b]]
			return ra < rb || ra == rb && sorted[a] < sorted[b]
		})
		ids := make([]string, len(sorted))
		for k, j := range sorted {
			ids[k] = o.ids[j]
		}
		mp[t.ids[i]] = ids
	}
	return mp
}

func remove(list []int, v int) []int {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
