// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/someonegg/stablematch"
)

var (
	ErrFormat = errors.New("instance: unknown format")
	ErrKind   = errors.New("instance: wrong kind")
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, path)
}

func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data), format)
}

func Decode(r io.Reader, format Format) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var f File
	if err := decodeInto(data, format, &f); err != nil {
		return nil, err
	}

	switch f.Kind {
	case Marriage, Hospitals, Roommates:
	default:
		return nil, fmt.Errorf("%w: %q", ErrKind, f.Kind)
	}
	return &f, nil
}

func decodeInto(data []byte, format Format, v interface{}) error {
	switch format {
	case JSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		return decoder.Decode(v)
	case YAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		return decoder.Decode(v)
	}
	return fmt.Errorf("%w: %q", ErrFormat, format)
}

func Encode(w io.Writer, v interface{}, format Format) error {
	switch format {
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "   ")
		return encoder.Encode(v)
	case YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("%w: %q", ErrFormat, format)
}

func Save(path string, f *File) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, f, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Market builds the two-sided model of a marriage or hospitals instance.
func (f *File) Market() (*stablematch.Market, error) {
	if f.Kind != Marriage && f.Kind != Hospitals {
		return nil, fmt.Errorf("%w: %q is not two-sided", ErrKind, f.Kind)
	}
	proposers, err := toAgents(f.Kind, stablematch.Proposers, f.Proposers)
	if err != nil {
		return nil, err
	}
	receivers, err := toAgents(f.Kind, stablematch.Receivers, f.Receivers)
	if err != nil {
		return nil, err
	}
	return stablematch.NewMarket(proposers, receivers)
}

func (f *File) Roommates() (*stablematch.Roommates, error) {
	if f.Kind != Roommates {
		return nil, fmt.Errorf("%w: %q is not a roommates instance", ErrKind, f.Kind)
	}
	members, err := toAgents(f.Kind, stablematch.Members, f.Agents)
	if err != nil {
		return nil, err
	}
	return stablematch.NewRoommates(members)
}

func toAgents(kind Kind, side stablematch.Side, in []*Agent) ([]stablematch.Agent, error) {
	out := make([]stablematch.Agent, len(in))
	for i, a := range in {
		if a.Capacity != nil {
			c := *a.Capacity
			if c <= 0 {
				return nil, &stablematch.PreferenceError{Side: side, Agent: a.ID, Reason: "non-positive capacity"}
			}
			if c > 1 && kind != Hospitals {
				return nil, &stablematch.PreferenceError{Side: side, Agent: a.ID, Reason: "capacity above one in a " + string(kind) + " instance"}
			}
			out[i].Capacity = c
		}
		out[i].ID = a.ID
		out[i].Prefs = make([]stablematch.Tier, len(a.Prefs))
		for k, e := range a.Prefs {
			out[i].Prefs[k] = stablematch.Tier(e)
		}
		out[i].Info = a
	}
	return out, nil
}

// FromMarket is the inverse of (*File).Market. The kind is hospitals when
// any agent has a capacity above one.
func FromMarket(m *stablematch.Market) *File {
	f := &File{
		Kind:      Marriage,
		Proposers: fromAgents(m.Agents(stablematch.Proposers)),
		Receivers: fromAgents(m.Agents(stablematch.Receivers)),
	}
	for _, side := range [][]*Agent{f.Proposers, f.Receivers} {
		for _, a := range side {
			if a.Capacity != nil {
				f.Kind = Hospitals
			}
		}
	}
	return f
}

func FromRoommates(r *stablematch.Roommates) *File {
	return &File{Kind: Roommates, Agents: fromAgents(r.Agents())}
}

func fromAgents(in []stablematch.Agent) []*Agent {
	out := make([]*Agent, len(in))
	for i, a := range in {
		out[i] = &Agent{ID: a.ID, Prefs: make([]Entry, len(a.Prefs))}
		if a.Capacity > 1 {
			c := a.Capacity
			out[i].Capacity = &c
		}
		for k, tier := range a.Prefs {
			out[i].Prefs[k] = Entry(tier)
		}
	}
	return out
}
