// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import "sort"

// BlockingPair is a pair of agents who both strictly prefer each other to
// their current assignment. For a market A is the proposer.
type BlockingPair struct {
	A string
	B string
}

type Verdict struct {
	Status   Status
	Blocking []BlockingPair // canonical order, by declaration index of A then B
}

// Verify checks a candidate matching against the market. A pair blocks when
// both agents find each other acceptable, are not matched together, and each
// either has spare capacity or strictly prefers the other to its worst
// partner. Under ties this is weak stability.
//
// Proposers or receivers missing from mt are unassigned. mt.Receivers may be
// nil, it is then derived from mt.Proposers.
func Verify(m *Market, mt Matching) (*Verdict, error) {
	held, err := heldFromMatching(m, mt)
	if err != nil {
		return nil, err
	}

	p, r := m.p, m.r
	matched := make([]map[int]bool, len(p.ids))
	for i := range p.ids {
		matched[i] = make(map[int]bool, len(held[Proposers][i]))
		for _, j := range held[Proposers][i] {
			matched[i][j] = true
		}
	}

	v := &Verdict{Status: Stable}
	for i := range p.ids {
		wi := worstOf(p, i, held[Proposers][i])
		for _, j := range p.lists[i] {
			if matched[i][j] || !r.acceptable(j, i) {
				continue
			}
			if !wants(p, i, j, wi, held[Proposers][i]) {
				continue
			}
			wj := worstOf(r, j, held[Receivers][j])
			if !wants(r, j, i, wj, held[Receivers][j]) {
				continue
			}
			v.Blocking = append(v.Blocking, BlockingPair{A: p.ids[i], B: r.ids[j]})
		}
	}
	sortBlocking(v, p, r)
	if len(v.Blocking) > 0 {
		v.Status = Unstable
	}
	return v, nil
}

// VerifyPairing checks a roommates pairing. partners maps a member to its
// partner or Unassigned; missing members are unassigned.
func VerifyPairing(r *Roommates, partners map[string]string) (*Verdict, error) {
	t := r.t
	mate := make([]int, len(t.ids))
	for i := range mate {
		mate[i] = -1
	}

	for a, b := range partners {
		i, ok := t.lookup(a)
		if !ok {
			return nil, malformedMatching("unknown member %q", a)
		}
		if b == Unassigned {
			continue
		}
		j, ok := t.lookup(b)
		if !ok {
			return nil, malformedMatching("%q paired with unknown member %q", a, b)
		}
		if i == j {
			return nil, malformedMatching("%q paired with itself", a)
		}
		if partners[b] != a {
			return nil, malformedMatching("%q paired with %q but not the reverse", a, b)
		}
		if !t.acceptable(i, j) || !t.acceptable(j, i) {
			return nil, malformedMatching("%q and %q are not mutually acceptable", a, b)
		}
		mate[i] = j
	}

	v := &Verdict{Status: Stable}
	for i := range t.ids {
		for j := i + 1; j < len(t.ids); j++ {
			if mate[i] == j || !t.acceptable(i, j) || !t.acceptable(j, i) {
				continue
			}
			if t.prefers(i, j, mate[i]) && t.prefers(j, i, mate[j]) {
				v.Blocking = append(v.Blocking, BlockingPair{A: t.ids[i], B: t.ids[j]})
			}
		}
	}
	if len(v.Blocking) > 0 {
		v.Status = Unstable
	}
	return v, nil
}

func heldFromMatching(m *Market, mt Matching) ([2][][]int, error) {
	var held [2][][]int
	held[Proposers] = make([][]int, len(m.p.ids))
	held[Receivers] = make([][]int, len(m.r.ids))

	for a, partners := range mt.Proposers {
		i, ok := m.p.lookup(a)
		if !ok {
			return held, malformedMatching("unknown proposer %q", a)
		}
		seen := make(map[int]bool, len(partners))
		for _, b := range partners {
			j, ok := m.r.lookup(b)
			if !ok {
				return held, malformedMatching("proposer %q matched with unknown receiver %q", a, b)
			}
			if seen[j] {
				return held, malformedMatching("proposer %q matched with %q twice", a, b)
			}
			if !m.p.acceptable(i, j) || !m.r.acceptable(j, i) {
				return held, malformedMatching("%q and %q are not mutually acceptable", a, b)
			}
			seen[j] = true
			held[Proposers][i] = append(held[Proposers][i], j)
			held[Receivers][j] = append(held[Receivers][j], i)
		}
		if len(partners) > m.p.caps[i] {
			return held, malformedMatching("proposer %q exceeds capacity %d", a, m.p.caps[i])
		}
	}

	for j, partners := range held[Receivers] {
		if len(partners) > m.r.caps[j] {
			return held, malformedMatching("receiver %q exceeds capacity %d", m.r.ids[j], m.r.caps[j])
		}
	}

	if mt.Receivers == nil {
		return held, nil
	}
	for b, partners := range mt.Receivers {
		j, ok := m.r.lookup(b)
		if !ok {
			return held, malformedMatching("unknown receiver %q", b)
		}
		if len(partners) != len(held[Receivers][j]) {
			return held, malformedMatching("receiver %q disagrees with its proposers", b)
		}
		for _, a := range partners {
			i, ok := m.p.lookup(a)
			if !ok || !contains(held[Receivers][j], i) {
				return held, malformedMatching("receiver %q disagrees with its proposers", b)
			}
		}
	}
	for j, partners := range held[Receivers] {
		if _, ok := mt.Receivers[m.r.ids[j]]; !ok && len(partners) > 0 {
			return held, malformedMatching("receiver %q missing", m.r.ids[j])
		}
	}
	return held, nil
}

func worstOf(t *table, i int, partners []int) int {
	w := -1
	for _, j := range partners {
		if w < 0 || t.rank[i][j] > t.rank[i][w] {
			w = j
		}
	}
	return w
}

// wants reports whether agent i of t would take j: it has room, or it
// strictly prefers j to its worst partner w.
func wants(t *table, i, j, w int, partners []int) bool {
	if len(partners) < t.caps[i] {
		return t.acceptable(i, j)
	}
	return t.prefers(i, j, w)
}

func sortBlocking(v *Verdict, p, r *table) {
	sort.Slice(v.Blocking, func(a, b int) bool {
		x, y := v.Blocking[a], v.Blocking[b]
		if ix, iy := p.index[x.A], p.index[y.A]; ix != iy {
			return ix < iy
		}
		return r.index[x.B] < r.index[y.B]
	})
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
