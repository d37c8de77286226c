package breath

import "testing"

func TestParseMedium(t *testing.T) {
	cases := map[string]Medium{
		"air":     MediumAir,
		"AIR":     MediumAir,
		"Oxygen":  MediumAir,
		" Water ": MediumWater,
		"Magma":   Medium("magma"),
	}
	for in, want := range cases {
		if got := ParseMedium(in); got != want {
			t.Fatalf("ParseMedium(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestCapacityCanBreathe(t *testing.T) {
	c := Capacity{Breathes: NewMediumSet("Oxygen", "", "Water")}
	if !c.CanBreathe(MediumAir) || !c.CanBreathe("WATER") {
		t.Fatalf("expected air and water to be breathable")
	}
	if c.CanBreathe(MediumLava) {
		t.Fatalf("lava must not be breathable")
	}
	if (Capacity{}).CanBreathe(MediumAir) {
		t.Fatalf("nothing is breathable without configured media")
	}
}
