// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

// Market is an immutable two-sided preference model. It is safe to share
// between goroutines.
type Market struct {
	p *table
	r *table
}

// NewMarket validates the preferences of both sides. Either side may carry
// capacities above one, but not both.
func NewMarket(proposers, receivers []Agent) (*Market, error) {
	p, err := newTable(Proposers, proposers)
	if err != nil {
		return nil, err
	}
	r, err := newTable(Receivers, receivers)
	if err != nil {
		return nil, err
	}
	if err := p.link(proposers, r); err != nil {
		return nil, err
	}
	if err := r.link(receivers, p); err != nil {
		return nil, err
	}

	if p.maxCap() > 1 && r.maxCap() > 1 {
		for i, c := range r.caps {
			if c > 1 {
				return nil, &PreferenceError{Side: Receivers, Agent: r.ids[i], Reason: "capacity above one on both sides"}
			}
		}
	}

	return &Market{p: p, r: r}, nil
}

func (m *Market) side(s Side) (self, other *table) {
	if s == Receivers {
		return m.r, m.p
	}
	return m.p, m.r
}

// IDs returns the agents of side s in declaration order.
func (m *Market) IDs(s Side) []string {
	t, _ := m.side(s)
	return append([]string(nil), t.ids...)
}

// Capacity returns the quota of id on side s, or 0 for an unknown agent.
func (m *Market) Capacity(s Side, id string) int {
	t, _ := m.side(s)
	i, ok := t.lookup(id)
	if !ok {
		return 0
	}
	return t.caps[i]
}

// RankOf returns the tier of partner on agent's list, 0 being the most
// preferred. ok is false when partner is unacceptable to agent.
func (m *Market) RankOf(s Side, agent, partner string) (rank int, ok bool) {
	t, o := m.side(s)
	return t.rankOf(agent, partner, o)
}

// NextCandidate returns the proposer's candidate at cursor. ok is false once
// the list is exhausted.
func (m *Market) NextCandidate(agent string, cursor int) (partner string, ok bool) {
	return m.p.nextCandidate(agent, cursor, m.r)
}

// Prefs returns the flattened preference list of id on side s.
func (m *Market) Prefs(s Side, id string) []string {
	t, o := m.side(s)
	i, ok := t.lookup(id)
	if !ok {
		return nil
	}
	prefs := make([]string, len(t.lists[i]))
	for k, j := range t.lists[i] {
		prefs[k] = o.ids[j]
	}
	return prefs
}

func (m *Market) HasTies() bool {
	return m.p.ties || m.r.ties
}

// Len is the sum of the proposers' list lengths, the proposal bound of
// deferred acceptance.
func (m *Market) Len() int {
	return m.p.total
}

// Swap returns the same market with the roles of both sides exchanged.
func (m *Market) Swap() *Market {
	p, r := *m.r, *m.p
	p.side, r.side = Proposers, Receivers
	return &Market{p: &p, r: &r}
}

// Agents returns a copy of the declared agents of side s.
func (m *Market) Agents(s Side) []Agent {
	t, o := m.side(s)
	return t.agents(o)
}
