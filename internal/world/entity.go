package world

import (
	"math"

	"github.com/l1jgo/breathing/internal/breath"
)

// Body places an entity in the terrain. Pos is the block holding its feet.
type Body struct {
	Key     string
	Species string
	Pos     Vec3i
	Height  float64
}

// Cells returns the number of block cells the body occupies vertically.
func (b *Body) Cells() int32 {
	n := int32(math.Ceil(b.Height))
	if n < 1 {
		n = 1
	}
	return n
}

// HeadY is the body-relative height of the head cell.
func (b *Body) HeadY() int32 {
	return b.Cells() - 1
}

// IsHeadLevel reports whether a body-relative cell height is the head cell.
func (b *Body) IsHeadLevel(relativeY int32) bool {
	return relativeY == b.HeadY()
}

// HeadPos returns the absolute block position of the head.
func (b *Body) HeadPos() Vec3i {
	return b.Pos.Add(Vec3i{Y: b.HeadY()})
}

// Health is an entity's hit points.
type Health struct {
	HP    int32
	MaxHP int32
	Dead  bool
}

// Drowns marks an entity as needing breath. Entities without it never drown.
type Drowns struct {
	Capacity breath.Capacity
	// Breathes keeps the configured names for scripting hooks.
	Breathes []string
}
