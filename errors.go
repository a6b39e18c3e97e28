// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"errors"
	"fmt"
)

// ErrMalformedPreference is matched by every preference validation failure.
var ErrMalformedPreference = errors.New("stablematch: malformed preference")

// ErrInternalInvariant is matched when an engine exceeds its iteration bound.
var ErrInternalInvariant = errors.New("stablematch: internal invariant violated")

// ErrMalformedMatching is returned by the verifier for a candidate that is
// not a matching over the given model.
var ErrMalformedMatching = errors.New("stablematch: malformed matching")

// PreferenceError describes a structural defect in the input preferences.
type PreferenceError struct {
	Side    Side
	Agent   string
	Partner string
	Reason  string
}

func (e *PreferenceError) Error() string {
	if e.Partner != "" {
		return fmt.Sprintf("stablematch: %s %q: %s %q", e.Side, e.Agent, e.Reason, e.Partner)
	}
	return fmt.Sprintf("stablematch: %s %q: %s", e.Side, e.Agent, e.Reason)
}

func (e *PreferenceError) Unwrap() error { return ErrMalformedPreference }

// InvariantError reports an engine that ran past its proposal bound.
type InvariantError struct {
	Engine string
	Steps  int
	Bound  int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("stablematch: %s exceeded %d steps (took %d)", e.Engine, e.Bound, e.Steps)
}

func (e *InvariantError) Unwrap() error { return ErrInternalInvariant }

func malformedMatching(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedMatching, fmt.Sprintf(format, args...))
}
