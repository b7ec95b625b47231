package parser

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YTopology is the canonical building description shared by every collaborator.
type YTopology struct {
	Name  string  `yaml:"name,omitempty"`
	Zones []YZone `yaml:"zones,omitempty"`

	// Doors maps door id to its two endpoint zones.
	Doors map[int][]int `yaml:"doors,omitempty"`

	// Connections is the adjacency shorthand {zone: [zones...]}; each pair becomes a
	// door with an id assigned after the highest explicit door id.
	Connections map[int][]int `yaml:"connections,omitempty"`

	// DoorStatus overrides the initial state of individual doors (default open).
	DoorStatus map[int]string `yaml:"door_status,omitempty"`

	Exits []int `yaml:"exits,omitempty"`
}

type YZone struct {
	ID             int    `yaml:"id"`
	Name           string `yaml:"name,omitempty"`
	Kind           string `yaml:"kind,omitempty"`
	Status         string `yaml:"status,omitempty"`
	Classification string `yaml:"classification,omitempty"`
}

func ParseYAML(path string) (*YTopology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAMLBytes(b)
}

func ParseYAMLBytes(b []byte) (*YTopology, error) {
	var t YTopology
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func ParseYAMLString(s string) (*YTopology, error) {
	return ParseYAMLBytes([]byte(s))
}
