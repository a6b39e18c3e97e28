// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instance reads and writes matching instances and solver reports.
package instance

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type Kind string

const (
	Marriage  Kind = "marriage"
	Hospitals Kind = "hospitals"
	Roommates Kind = "roommates"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// File is an instance as stored on disk. Marriage and hospitals instances
// use Proposers and Receivers, roommates instances use Agents.
type File struct {
	Kind      Kind     `json:"kind" yaml:"kind"`
	Proposers []*Agent `json:"proposers,omitempty" yaml:"proposers,omitempty"`
	Receivers []*Agent `json:"receivers,omitempty" yaml:"receivers,omitempty"`
	Agents    []*Agent `json:"agents,omitempty" yaml:"agents,omitempty"`
}

type Agent struct {
	ID       string  `json:"id" yaml:"id"`
	Capacity *int    `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Prefs    []Entry `json:"prefs" yaml:"prefs"`
}

// Entry is one rank of a preference list: a single id, or a list of ids
// tied at that rank.
type Entry []string

func (e *Entry) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*e = Entry{id}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("preference entry must be an id or a list of ids: %s", data)
	}
	*e = ids
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e) == 1 {
		return json.Marshal(e[0])
	}
	return json.Marshal([]string(e))
}

func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*e = Entry{node.Value}
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return err
		}
		*e = ids
		return nil
	}
	return fmt.Errorf("line %d: preference entry must be an id or a list of ids", node.Line)
}

func (e Entry) MarshalYAML() (interface{}, error) {
	if len(e) == 1 {
		return e[0], nil
	}
	return []string(e), nil
}
