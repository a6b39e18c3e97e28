// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instance

import (
	"bytes"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/someonegg/stablematch"
	"github.com/someonegg/stablematch/score"
)

// Report is the outcome of one solver run.
type Report struct {
	RunID     uuid.UUID      `json:"run_id" yaml:"run_id"`
	Kind      Kind           `json:"kind" yaml:"kind"`
	Status    string         `json:"status" yaml:"status"`
	Weak      bool           `json:"weak,omitempty" yaml:"weak,omitempty"`
	Proposals int            `json:"proposals" yaml:"proposals"`
	Matching  []*Assignment  `json:"matching,omitempty" yaml:"matching,omitempty"`
	Pairs     []Pair         `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Unpaired  []string       `json:"unpaired,omitempty" yaml:"unpaired,omitempty"`
	Scores    *score.Summary `json:"scores,omitempty" yaml:"scores,omitempty"`
	Blocking  []Pair         `json:"blocking,omitempty" yaml:"blocking,omitempty"`
}

type Assignment struct {
	Agent    string   `json:"agent" yaml:"agent"`
	Partners []string `json:"partners" yaml:"partners"`
}

type Pair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

func NewReport(kind Kind, res *stablematch.Result) *Report {
	return &Report{
		RunID:     uuid.New(),
		Kind:      kind,
		Status:    res.Status.String(),
		Weak:      res.Weak,
		Proposals: res.Proposals,
		Matching:  genAssignments(res.Matching.Proposers),
	}
}

func NewPairingReport(p *stablematch.Pairing) *Report {
	r := &Report{
		RunID:     uuid.New(),
		Kind:      Roommates,
		Status:    p.Status.String(),
		Proposals: p.Proposals,
	}
	for a, b := range p.Partners {
		switch {
		case b == stablematch.Unassigned:
			r.Unpaired = append(r.Unpaired, a)
		case a < b:
			r.Pairs = append(r.Pairs, Pair{A: a, B: b})
		}
	}
	sort.Strings(r.Unpaired)
	sort.Slice(r.Pairs, func(i, j int) bool {
		return r.Pairs[i].A < r.Pairs[j].A
	})
	return r
}

// SetBlocking records a verifier verdict, keeping its order.
func (r *Report) SetBlocking(v *stablematch.Verdict) {
	r.Status = v.Status.String()
	r.Blocking = make([]Pair, len(v.Blocking))
	for i, bp := range v.Blocking {
		r.Blocking[i] = Pair{A: bp.A, B: bp.B}
	}
}

// MatchingOf turns report assignments back into a matching, for verifying a
// stored solution.
func (r *Report) MatchingOf() stablematch.Matching {
	mt := stablematch.Matching{Proposers: make(map[string][]string, len(r.Matching))}
	for _, a := range r.Matching {
		mt.Proposers[a.Agent] = append(mt.Proposers[a.Agent], a.Partners...)
	}
	return mt
}

// PartnersOf is MatchingOf for a roommates report.
func (r *Report) PartnersOf() map[string]string {
	partners := make(map[string]string, 2*len(r.Pairs)+len(r.Unpaired))
	for _, p := range r.Pairs {
		partners[p.A] = p.B
		partners[p.B] = p.A
	}
	for _, id := range r.Unpaired {
		partners[id] = stablematch.Unassigned
	}
	return partners
}

func LoadReport(path string) (*Report, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := decodeInto(data, format, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func SaveReport(path string, r *Report) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, r, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func genAssignments(held map[string][]string) []*Assignment {
	assignments := make([]*Assignment, 0, len(held))

	for agent, partners := range held {
		a := &Assignment{
			Agent:    agent,
			Partners: make([]string, len(partners)),
		}
		copy(a.Partners, partners)
		assignments = append(assignments, a)
	}

	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Agent < assignments[j].Agent
	})

	return assignments
}
