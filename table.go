// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

const unacceptable = -1

// table is the arena form of one side's preferences. Agents and partners are
// addressed by their declaration index.
type table struct {
	side  Side
	ids   []string
	index map[string]int
	caps  []int

	lists [][]int // partner indexes, most preferred first, ties flattened
	rank  [][]int // rank[i][j] is the tier of j on i's list, or unacceptable
	ties  bool
	total int
}

func newTable(side Side, agents []Agent) (*table, error) {
	t := &table{
		side:  side,
		ids:   make([]string, len(agents)),
		index: make(map[string]int, len(agents)),
		caps:  make([]int, len(agents)),
	}

	for i, a := range agents {
		if a.ID == "" {
			return nil, &PreferenceError{Side: side, Agent: a.ID, Reason: "empty agent id"}
		}
		if _, ok := t.index[a.ID]; ok {
			return nil, &PreferenceError{Side: side, Agent: a.ID, Reason: "duplicate agent"}
		}
		if a.Capacity < 0 {
			return nil, &PreferenceError{Side: side, Agent: a.ID, Reason: "non-positive capacity"}
		}
		t.ids[i] = a.ID
		t.index[a.ID] = i
		t.caps[i] = a.Capacity
		if t.caps[i] == 0 {
			t.caps[i] = 1
		}
	}

	return t, nil
}

// link resolves the preference lists of agents against other. other is t
// itself for a one-sided instance.
func (t *table) link(agents []Agent, other *table) error {
	t.lists = make([][]int, len(agents))
	t.rank = make([][]int, len(agents))

	for i, a := range agents {
		rank := make([]int, len(other.ids))
		for j := range rank {
			rank[j] = unacceptable
		}

		var list []int
		for tier, group := range a.Prefs {
			if len(group) == 0 {
				return &PreferenceError{Side: t.side, Agent: a.ID, Reason: "empty tie group"}
			}
			if len(group) > 1 {
				t.ties = true
			}
			for _, id := range group {
				j, ok := other.index[id]
				if !ok {
					return &PreferenceError{Side: t.side, Agent: a.ID, Reason: "ranks unknown agent", Partner: id}
				}
				if other == t && j == i {
					return &PreferenceError{Side: t.side, Agent: a.ID, Reason: "ranks itself"}
				}
				if rank[j] != unacceptable {
					return &PreferenceError{Side: t.side, Agent: a.ID, Reason: "lists more than once", Partner: id}
				}
				rank[j] = tier
				list = append(list, j)
			}
		}

		t.lists[i] = list
		t.rank[i] = rank
		t.total += len(list)
	}

	return nil
}

func (t *table) acceptable(i, j int) bool {
	return t.rank[i][j] != unacceptable
}

// prefers reports whether i strictly prefers a to b. b may be -1 for
// "no partner", which every acceptable a beats.
func (t *table) prefers(i, a, b int) bool {
	ra := t.rank[i][a]
	if ra == unacceptable {
		return false
	}
	if b < 0 {
		return true
	}
	rb := t.rank[i][b]
	return rb == unacceptable || ra < rb
}

func (t *table) lookup(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

func (t *table) rankOf(agent, partner string, other *table) (int, bool) {
	i, ok := t.index[agent]
	if !ok {
		return 0, false
	}
	j, ok := other.index[partner]
	if !ok {
		return 0, false
	}
	r := t.rank[i][j]
	return r, r != unacceptable
}

func (t *table) nextCandidate(agent string, cursor int, other *table) (string, bool) {
	i, ok := t.index[agent]
	if !ok || cursor < 0 || cursor >= len(t.lists[i]) {
		return "", false
	}
	return other.ids[t.lists[i][cursor]], true
}

func (t *table) maxCap() int {
	m := 0
	for _, c := range t.caps {
		if c > m {
			m = c
		}
	}
	return m
}

// agents rebuilds the declared agents, tie groups included.
func (t *table) agents(other *table) []Agent {
	agents := make([]Agent, len(t.ids))
	for i, id := range t.ids {
		var prefs []Tier
		last := -1
		for _, j := range t.lists[i] {
			if r := t.rank[i][j]; r != last {
				prefs = append(prefs, Tier{})
				last = r
			}
			prefs[len(prefs)-1] = append(prefs[len(prefs)-1], other.ids[j])
		}
		agents[i] = Agent{ID: id, Prefs: prefs, Capacity: t.caps[i]}
	}
	return agents
}
