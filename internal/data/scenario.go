package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run: the terrain, who is in it, and where they move.
type Scenario struct {
	DurationMs int64       `yaml:"duration_ms"`
	Terrain    TerrainDef  `yaml:"terrain"`
	Entities   []EntityDef `yaml:"entities"`
	Moves      []MoveDef   `yaml:"moves"`
}

type TerrainDef struct {
	Default string    `yaml:"default"`
	Fill    []FillDef `yaml:"fill"`
}

type FillDef struct {
	Min    [3]int32 `yaml:"min"`
	Max    [3]int32 `yaml:"max"`
	Medium string   `yaml:"medium"`
}

type EntityDef struct {
	Key     string   `yaml:"key"`
	Species string   `yaml:"species"`
	Pos     [3]int32 `yaml:"pos"`
}

type MoveDef struct {
	AtMs int64    `yaml:"at_ms"`
	Key  string   `yaml:"key"`
	Pos  [3]int32 `yaml:"pos"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes a scenario and sorts its moves by time. Moves must
// name a declared entity.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	keys := make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		if e.Key == "" || e.Species == "" {
			return nil, fmt.Errorf("parse scenario: entity needs key and species")
		}
		if keys[e.Key] {
			return nil, fmt.Errorf("parse scenario: duplicate entity %q", e.Key)
		}
		keys[e.Key] = true
	}
	for _, m := range s.Moves {
		if !keys[m.Key] {
			return nil, fmt.Errorf("parse scenario: move at %dms for unknown entity %q", m.AtMs, m.Key)
		}
		if m.AtMs < 0 {
			return nil, fmt.Errorf("parse scenario: move for %q at negative time", m.Key)
		}
	}
	sort.SliceStable(s.Moves, func(i, j int) bool { return s.Moves[i].AtMs < s.Moves[j].AtMs })
	return &s, nil
}
