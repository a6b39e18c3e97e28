// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

type irvingMatcher struct {
	opts Options
}

// Irving returns the stable roommates matcher. An instance without a stable
// matching yields a Pairing with Status Unstable, not an error.
//
// By default every member must end up paired: a list emptied during the
// proposal phase ends the run as Unstable. With Options.AllowUnpaired such
// members are left unpaired instead, and Unstable means no stable matching
// exists at all.
func Irving(opts Options) PairMatcher {
	return irvingMatcher{opts}
}

// reduction holds the reduced preference lists. A pair is on both lists or
// on neither.
type reduction struct {
	t     *table
	alive [][]bool
	size  []int
	steps int
	bound int
}

func newReduction(t *table) *reduction {
	n := len(t.ids)
	rd := &reduction{
		t:     t,
		alive: make([][]bool, n),
		size:  make([]int, n),
		bound: t.total + n,
	}
	for i := range t.ids {
		rd.alive[i] = make([]bool, n)
		for _, j := range t.lists[i] {
			if t.acceptable(j, i) {
				rd.alive[i][j] = true
				rd.size[i]++
			}
		}
	}
	return rd
}

func (rd *reduction) nth(i, n int) int {
	for _, j := range rd.t.lists[i] {
		if rd.alive[i][j] {
			if n == 0 {
				return j
			}
			n--
		}
	}
	return -1
}

func (rd *reduction) first(i int) int  { return rd.nth(i, 0) }
func (rd *reduction) second(i int) int { return rd.nth(i, 1) }

func (rd *reduction) last(i int) int {
	list := rd.t.lists[i]
	for k := len(list) - 1; k >= 0; k-- {
		if rd.alive[i][list[k]] {
			return list[k]
		}
	}
	return -1
}

func (rd *reduction) drop(i, j int) {
	if !rd.alive[i][j] {
		return
	}
	rd.alive[i][j], rd.alive[j][i] = false, false
	rd.size[i]--
	rd.size[j]--
}

// truncate drops every entry after x on y's list.
func (rd *reduction) truncate(y, x int) {
	list := rd.t.lists[y]
	after := false
	for _, w := range list {
		if after {
			rd.drop(y, w)
		} else if w == x {
			after = true
		}
	}
}

func (rd *reduction) tick(engine string) error {
	rd.steps++
	if rd.steps > rd.bound {
		return &InvariantError{Engine: engine, Steps: rd.steps, Bound: rd.bound}
	}
	return nil
}

func (im irvingMatcher) Pair(r *Roommates) (*Pairing, error) {
	log := im.opts.logger()
	t := r.t
	rd := newReduction(t)

	unstable := func(phase string, who int) *Pairing {
		log.Debug("no stable matching", "phase", phase, "member", t.ids[who], "steps", rd.steps)
		return &Pairing{Status: Unstable, Proposals: rd.steps}
	}

	// phase 1: proposals, an accepted proposal truncates the receiver's list
	// after the proposer, which always drops the previous holder
	holder := make([]int, len(t.ids))
	queue := make([]int, 0, len(t.ids))
	for i := range t.ids {
		holder[i] = -1
		queue = append(queue, i)
	}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]

		y := rd.first(x)
		if y < 0 {
			if im.opts.AllowUnpaired {
				continue
			}
			return unstable("proposal", x), nil
		}
		if err := rd.tick("irving proposal phase"); err != nil {
			return nil, err
		}

		prev := holder[y]
		holder[y] = x
		rd.truncate(y, x)
		log.Debug("proposal", "proposer", t.ids[x], "receiver", t.ids[y])

		if prev >= 0 {
			queue = append(queue, prev)
		}
	}
	proposals := rd.steps

	// phase 2: rotation elimination
	pos := make([]int, len(t.ids))
	for {
		p := -1
		for i := range t.ids {
			if rd.size[i] > 1 {
				p = i
				break
			}
		}
		if p < 0 {
			break
		}
		if err := rd.tick("irving rotation phase"); err != nil {
			return nil, err
		}

		for i := range pos {
			pos[i] = -1
		}
		var seq []int
		for pos[p] < 0 {
			pos[p] = len(seq)
			seq = append(seq, p)
			q := rd.second(p)
			if q < 0 {
				return nil, &InvariantError{Engine: "irving rotation walk", Steps: rd.steps, Bound: rd.bound}
			}
			p = rd.last(q)
		}
		rotation := seq[pos[p]:]

		seconds := make([]int, len(rotation))
		for k, x := range rotation {
			seconds[k] = rd.second(x)
		}
		for k, x := range rotation {
			rd.truncate(seconds[k], x)
		}
		log.Debug("rotation eliminated", "size", len(rotation), "start", t.ids[rotation[0]])

		for _, x := range rotation {
			if rd.size[x] == 0 {
				return unstable("rotation", x), nil
			}
		}
		for _, y := range seconds {
			if rd.size[y] == 0 {
				return unstable("rotation", y), nil
			}
		}
	}

	partners := make(map[string]string, len(t.ids))
	for i := range t.ids {
		j := rd.first(i)
		if j < 0 {
			if !im.opts.AllowUnpaired {
				return unstable("final", i), nil
			}
			partners[t.ids[i]] = Unassigned
			continue
		}
		if rd.first(j) != i {
			return nil, &InvariantError{Engine: "irving final table", Steps: rd.steps, Bound: rd.bound}
		}
		partners[t.ids[i]] = t.ids[j]
	}

	log.Debug("irving done", "proposals", proposals, "steps", rd.steps)
	return &Pairing{Status: Stable, Partners: partners, Proposals: proposals}, nil
}
