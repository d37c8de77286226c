package breath

import (
	"strings"

	"golang.org/x/text/cases"
)

// Medium names the substance occupying an entity's head position.
type Medium string

const (
	MediumAir   Medium = "air"
	MediumWater Medium = "water"
	MediumLava  Medium = "lava"
)

// mediumAliases maps breathable-material names to the medium they cover.
var mediumAliases = map[string]Medium{
	"oxygen": MediumAir,
}

// ParseMedium folds case and resolves aliases, so "Oxygen", "AIR" and "air"
// all name MediumAir.
func ParseMedium(name string) Medium {
	key := cases.Fold().String(strings.TrimSpace(name))
	if m, ok := mediumAliases[key]; ok {
		return m
	}
	return Medium(key)
}

// MediumSet is the set of media an entity can breathe.
type MediumSet map[Medium]struct{}

// NewMediumSet parses every name with ParseMedium. Empty names are skipped.
func NewMediumSet(names ...string) MediumSet {
	s := make(MediumSet, len(names))
	for _, n := range names {
		m := ParseMedium(n)
		if m == "" {
			continue
		}
		s[m] = struct{}{}
	}
	return s
}

func (s MediumSet) Has(m Medium) bool {
	_, ok := s[ParseMedium(string(m))]
	return ok
}
