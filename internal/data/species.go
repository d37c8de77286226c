package data

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/l1jgo/breathing/internal/breath"
)

// Species describes a kind of creature and the breath configuration every
// entity of that kind shares.
type Species struct {
	Name               string   `yaml:"name"`
	Height             float64  `yaml:"height"`
	MaxHP              int32    `yaml:"max_hp"`
	BreathCapacityMs   uint32   `yaml:"breath_capacity_ms"`
	BreathRechargeRate float64  `yaml:"breath_recharge_rate"`
	DamageIntervalMs   uint32   `yaml:"damage_interval_ms"`
	DamagePerTick      uint32   `yaml:"damage_per_tick"`
	Breathes           []string `yaml:"breathes"`
	// Drowns defaults to true; set false for creatures that never run out of breath.
	Drowns *bool `yaml:"drowns"`
}

// Capacity converts the species' breath settings to the core configuration.
func (s *Species) Capacity() breath.Capacity {
	return breath.Capacity{
		BreathCapacityMs:   s.BreathCapacityMs,
		BreathRechargeRate: s.BreathRechargeRate,
		DamageIntervalMs:   s.DamageIntervalMs,
		DamagePerTick:      s.DamagePerTick,
		Breathes:           breath.NewMediumSet(s.Breathes...),
	}
}

// CanDrown reports whether entities of this species track breath at all.
func (s *Species) CanDrown() bool {
	return s.Drowns == nil || *s.Drowns
}

type speciesFile struct {
	Species []Species `yaml:"species"`
}

const speciesSchema = `{
  "type": "object",
  "required": ["species"],
  "properties": {
    "species": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "height", "max_hp", "breath_capacity_ms", "breath_recharge_rate",
                     "damage_interval_ms", "damage_per_tick", "breathes"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "height": {"type": "number", "exclusiveMinimum": 0},
          "max_hp": {"type": "integer", "minimum": 1},
          "breath_capacity_ms": {"type": "integer", "minimum": 0, "maximum": 4294967295},
          "breath_recharge_rate": {"type": "number", "exclusiveMinimum": 0},
          "damage_interval_ms": {"type": "integer", "minimum": 0, "maximum": 4294967295},
          "damage_per_tick": {"type": "integer", "minimum": 0, "maximum": 4294967295},
          "breathes": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "drowns": {"type": "boolean"}
        }
      }
    }
  }
}`

var compiledSpeciesSchema = jsonschema.MustCompileString("species.schema.json", speciesSchema)

// SpeciesTable holds all species indexed by lower-case name.
type SpeciesTable struct {
	species map[string]*Species
}

// Get returns a species by name, or nil if none defined.
func (t *SpeciesTable) Get(name string) *Species {
	return t.species[strings.ToLower(name)]
}

// Count returns the number of species.
func (t *SpeciesTable) Count() int {
	return len(t.species)
}

// Names returns the species names in sorted order.
func (t *SpeciesTable) Names() []string {
	names := make([]string, 0, len(t.species))
	for _, s := range t.species {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// LoadSpeciesTable loads species definitions from a YAML file.
func LoadSpeciesTable(path string) (*SpeciesTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read species: %w", err)
	}
	return ParseSpeciesTable(raw)
}

// ParseSpeciesTable validates raw YAML against the species schema and builds
// the table. Duplicate names are rejected.
func ParseSpeciesTable(raw []byte) (*SpeciesTable, error) {
	if err := validateYAML(compiledSpeciesSchema, raw); err != nil {
		return nil, fmt.Errorf("validate species: %w", err)
	}
	var f speciesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse species: %w", err)
	}
	t := &SpeciesTable{species: make(map[string]*Species, len(f.Species))}
	for i := range f.Species {
		s := &f.Species[i]
		key := strings.ToLower(s.Name)
		if _, dup := t.species[key]; dup {
			return nil, fmt.Errorf("parse species: duplicate name %q", s.Name)
		}
		t.species[key] = s
	}
	return t, nil
}

// validateYAML decodes YAML into the generic JSON data model and validates it.
func validateYAML(schema *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
