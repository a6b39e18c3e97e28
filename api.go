// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stablematch provides stable matching algorithms over ordinal
// preferences: deferred acceptance for one-to-one and many-to-one markets,
// Irving's algorithm for stable roommates, and a stability verifier.
package stablematch

import "log/slog"

// Unassigned is the partner reported for an agent that holds no partner.
const Unassigned = ""

// Side names one side of a preference model.
type Side int

const (
	Proposers Side = iota
	Receivers
	Members // the single side of a roommates instance
)

func (s Side) String() string {
	switch s {
	case Proposers:
		return "proposer"
	case Receivers:
		return "receiver"
	case Members:
		return "member"
	}
	return "unknown"
}

// Tier is a group of equally ranked partners.
type Tier []string

type Agent struct {
	ID    string
	Prefs []Tier // most preferred first, absent means unacceptable
	// Capacity is the quota of a slot-side agent, 0 means 1.
	Capacity int
	Info     interface{}
}

// Strict builds a preference list without ties.
func Strict(ids ...string) []Tier {
	prefs := make([]Tier, len(ids))
	for i, id := range ids {
		prefs[i] = Tier{id}
	}
	return prefs
}

type Status int

const (
	Stable Status = iota
	Unstable
)

func (s Status) String() string {
	if s == Stable {
		return "stable"
	}
	return "unstable"
}

type Matcher interface {
	Match(m *Market) (*Result, error)
}

type PairMatcher interface {
	Pair(r *Roommates) (*Pairing, error)
}

// Matching maps every agent of each side to its partners. An empty partner
// set means the agent is unassigned.
type Matching struct {
	Proposers map[string][]string
	Receivers map[string][]string
}

// PartnerOf returns the first partner of id on side s, or Unassigned.
func (mt Matching) PartnerOf(s Side, id string) string {
	var partners []string
	if s == Receivers {
		partners = mt.Receivers[id]
	} else {
		partners = mt.Proposers[id]
	}
	if len(partners) == 0 {
		return Unassigned
	}
	return partners[0]
}

type Result struct {
	Status   Status
	Matching Matching
	// Weak is set when the market has ties: the matching is then only weakly
	// stable and proposer-optimality no longer holds.
	Weak      bool
	Proposals int
}

type Pairing struct {
	Status    Status
	Partners  map[string]string // nil when Status is Unstable
	Proposals int
}

// Proposal describes one step of the deferred acceptance loop.
type Proposal struct {
	Proposer string
	Receiver string
	Accepted bool
	Rejected string // displaced proposer, Unassigned if none
}

type Options struct {
	Logger *slog.Logger // nil discards

	// OnProposal is called after every deferred acceptance step.
	OnProposal func(p Proposal, s *State)

	// AllowUnpaired lets Irving leave members unpaired, see Irving.
	AllowUnpaired bool
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
