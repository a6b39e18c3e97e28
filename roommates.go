// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

// Roommates is an immutable one-sided preference model: every member ranks
// the other members.
type Roommates struct {
	t *table
}

// NewRoommates validates a roommates instance. Ties are rejected, Irving's
// algorithm needs strict lists.
func NewRoommates(members []Agent) (*Roommates, error) {
	t, err := newTable(Members, members)
	if err != nil {
		return nil, err
	}
	for i, c := range t.caps {
		if c != 1 {
			return nil, &PreferenceError{Side: Members, Agent: t.ids[i], Reason: "capacity must be one"}
		}
	}
	if err := t.link(members, t); err != nil {
		return nil, err
	}
	for i, a := range members {
		for _, group := range a.Prefs {
			if len(group) > 1 {
				return nil, &PreferenceError{Side: Members, Agent: t.ids[i], Reason: "ties are not supported", Partner: group[1]}
			}
		}
	}
	return &Roommates{t: t}, nil
}

func (r *Roommates) IDs() []string {
	return append([]string(nil), r.t.ids...)
}

func (r *Roommates) RankOf(agent, partner string) (rank int, ok bool) {
	return r.t.rankOf(agent, partner, r.t)
}

func (r *Roommates) NextCandidate(agent string, cursor int) (partner string, ok bool) {
	return r.t.nextCandidate(agent, cursor, r.t)
}

func (r *Roommates) Prefs(id string) []string {
	i, ok := r.t.lookup(id)
	if !ok {
		return nil
	}
	prefs := make([]string, len(r.t.lists[i]))
	for k, j := range r.t.lists[i] {
		prefs[k] = r.t.ids[j]
	}
	return prefs
}

func (r *Roommates) Len() int {
	return r.t.total
}

func (r *Roommates) Agents() []Agent {
	return r.t.agents(r.t)
}
