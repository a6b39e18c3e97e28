// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

type deferredMatcher struct {
	opts Options
}

// DeferredAcceptance returns the Gale–Shapley matcher. With strict
// preferences the result is proposer-optimal and receiver-pessimal. With ties
// the receivers only trade up on strict improvement, so the result is weakly
// stable and Result.Weak is set.
func DeferredAcceptance(opts Options) Matcher {
	return deferredMatcher{opts}
}

func (dm deferredMatcher) Match(m *Market) (*Result, error) {
	log := dm.opts.logger()
	s := newState(m)
	bound := m.Len()

	queue := make([]int, 0, len(m.p.ids))
	queued := make([]bool, len(m.p.ids))
	for p := range m.p.ids {
		queue = append(queue, p)
		queued[p] = true
	}

	for len(queue) > 0 {
		p := queue[0]
		if !s.free(p) {
			queue = queue[1:]
			queued[p] = false
			continue
		}

		if s.steps >= bound {
			return nil, &InvariantError{Engine: "deferred acceptance", Steps: s.steps + 1, Bound: bound}
		}
		r := m.p.lists[p][s.cursor[p]]
		s.cursor[p]++
		s.steps++

		step := Proposal{Proposer: m.p.ids[p], Receiver: m.r.ids[r]}

		switch {
		case !m.r.acceptable(r, p):
		case !s.full(Receivers, r):
			s.hold(p, r)
			step.Accepted = true
		default:
			w := s.worst(r)
			if m.r.prefers(r, p, w) {
				s.release(w, r)
				s.hold(p, r)
				step.Accepted = true
				step.Rejected = m.p.ids[w]
				if !queued[w] {
					queue = append(queue, w)
					queued[w] = true
				}
			}
		}

		log.Debug("proposal",
			"proposer", step.Proposer, "receiver", step.Receiver,
			"accepted", step.Accepted, "rejected", step.Rejected)
		if dm.opts.OnProposal != nil {
			dm.opts.OnProposal(step, s)
		}
	}

	res := &Result{
		Status:    Stable,
		Matching:  s.freeze(),
		Weak:      m.HasTies(),
		Proposals: s.steps,
	}
	log.Debug("deferred acceptance done", "proposals", res.Proposals, "bound", bound, "weak", res.Weak)
	return res, nil
}
