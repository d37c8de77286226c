package world

import "github.com/l1jgo/breathing/internal/breath"

// Vec3i is a block position. Y is up.
type Vec3i struct {
	X, Y, Z int32
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Box is an inclusive block volume filled with one medium.
type Box struct {
	Min, Max Vec3i
	Medium   breath.Medium
}

func (b Box) Contains(p Vec3i) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Terrain answers which medium occupies a block. Later boxes paint over
// earlier ones; blocks outside every box hold the fallback medium.
type Terrain struct {
	fallback breath.Medium
	boxes    []Box
}

func NewTerrain(fallback breath.Medium) *Terrain {
	if fallback == "" {
		fallback = breath.MediumAir
	}
	return &Terrain{fallback: fallback}
}

// Fill paints a volume with a medium. Min and Max are normalized.
func (t *Terrain) Fill(min, max Vec3i, m breath.Medium) {
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	if min.Z > max.Z {
		min.Z, max.Z = max.Z, min.Z
	}
	t.boxes = append(t.boxes, Box{Min: min, Max: max, Medium: breath.ParseMedium(string(m))})
}

func (t *Terrain) MediumAt(p Vec3i) breath.Medium {
	for i := len(t.boxes) - 1; i >= 0; i-- {
		if t.boxes[i].Contains(p) {
			return t.boxes[i].Medium
		}
	}
	return t.fallback
}
