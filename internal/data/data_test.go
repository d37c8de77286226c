package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/breathing/internal/breath"
)

const speciesYAML = `
species:
  - name: Human
    height: 1.8
    max_hp: 20
    breath_capacity_ms: 15000
    breath_recharge_rate: 2.0
    damage_interval_ms: 1000
    damage_per_tick: 2
    breathes: [Oxygen]
  - name: fish
    height: 0.5
    max_hp: 4
    breath_capacity_ms: 5000
    breath_recharge_rate: 1
    damage_interval_ms: 500
    damage_per_tick: 1
    breathes: [water]
  - name: golem
    height: 2.5
    max_hp: 100
    breath_capacity_ms: 0
    breath_recharge_rate: 1
    damage_interval_ms: 0
    damage_per_tick: 0
    breathes: []
    drowns: false
`

func TestLoadSpeciesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	if err := os.WriteFile(path, []byte(speciesYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := LoadSpeciesTable(path)
	if err != nil {
		t.Fatalf("LoadSpeciesTable: %v", err)
	}
	if tbl.Count() != 3 {
		t.Fatalf("expected 3 species, got %d", tbl.Count())
	}
	human := tbl.Get("human")
	if human == nil {
		t.Fatalf("expected case-insensitive lookup")
	}
	c := human.Capacity()
	if c.BreathCapacityMs != 15000 || c.BreathRechargeRate != 2 || c.DamagePerTick != 2 {
		t.Fatalf("unexpected capacity %+v", c)
	}
	if !c.CanBreathe(breath.MediumAir) || c.CanBreathe(breath.MediumWater) {
		t.Fatalf("humans breathe air only")
	}
	if !tbl.Get("fish").Capacity().CanBreathe(breath.MediumWater) {
		t.Fatalf("fish breathe water")
	}
	if tbl.Get("golem").CanDrown() || !human.CanDrown() {
		t.Fatalf("drowns flag not honoured")
	}
	if names := tbl.Names(); names[0] != "Human" || names[2] != "golem" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestParseSpeciesRejectsInvalid(t *testing.T) {
	bad := []string{
		"species:\n  - name: x\n    height: 1\n    max_hp: 1\n    breath_capacity_ms: -5\n    breath_recharge_rate: 1\n    damage_interval_ms: 1\n    damage_per_tick: 1\n    breathes: [air]\n",
		"species:\n  - name: x\n    height: 1\n    max_hp: 1\n    breath_capacity_ms: 5\n    breath_recharge_rate: 0\n    damage_interval_ms: 1\n    damage_per_tick: 1\n    breathes: [air]\n",
		"species:\n  - name: x\n    height: 1\n",
		"species: nope\n",
	}
	for i, raw := range bad {
		if _, err := ParseSpeciesTable([]byte(raw)); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestParseSpeciesRejectsDuplicates(t *testing.T) {
	raw := speciesYAML + `  - name: HUMAN
    height: 1
    max_hp: 1
    breath_capacity_ms: 1
    breath_recharge_rate: 1
    damage_interval_ms: 1
    damage_per_tick: 1
    breathes: [air]
`
	if _, err := ParseSpeciesTable([]byte(raw)); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestParseScenario(t *testing.T) {
	raw := `
duration_ms: 30000
terrain:
  default: air
  fill:
    - {min: [-4, 0, -4], max: [4, 3, 4], medium: water}
entities:
  - {key: diver, species: human, pos: [0, 4, 0]}
moves:
  - {at_ms: 9000, key: diver, pos: [0, 4, 0]}
  - {at_ms: 1000, key: diver, pos: [0, 1, 0]}
`
	s, err := ParseScenario([]byte(raw))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if s.DurationMs != 30000 || len(s.Terrain.Fill) != 1 || s.Terrain.Fill[0].Max[1] != 3 {
		t.Fatalf("unexpected scenario %+v", s)
	}
	if s.Moves[0].AtMs != 1000 || s.Moves[1].AtMs != 9000 {
		t.Fatalf("moves not sorted: %+v", s.Moves)
	}
}

func TestParseScenarioUnknownEntity(t *testing.T) {
	raw := "entities:\n  - {key: a, species: human}\nmoves:\n  - {at_ms: 1, key: b, pos: [0,0,0]}\n"
	if _, err := ParseScenario([]byte(raw)); err == nil {
		t.Fatalf("expected unknown entity error")
	}
}
