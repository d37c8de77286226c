package world

import (
	"testing"
	"time"

	"github.com/l1jgo/breathing/internal/breath"
)

func TestGameClockMonotonic(t *testing.T) {
	c := NewGameClock(1000)
	c.Advance(250 * time.Millisecond)
	c.Advance(-time.Second)
	c.Set(900)
	if c.NowMs() != 1250 {
		t.Fatalf("expected 1250, got %d", c.NowMs())
	}
	c.Set(5000)
	if c.NowMs() != 5000 {
		t.Fatalf("expected 5000, got %d", c.NowMs())
	}
}

func TestTerrainLaterBoxesWin(t *testing.T) {
	tr := NewTerrain("")
	tr.Fill(Vec3i{0, 0, 0}, Vec3i{9, 4, 9}, "Water")
	tr.Fill(Vec3i{5, 4, 5}, Vec3i{3, 2, 3}, breath.MediumLava)

	if m := tr.MediumAt(Vec3i{0, 0, 0}); m != breath.MediumWater {
		t.Fatalf("expected water, got %q", m)
	}
	if m := tr.MediumAt(Vec3i{4, 3, 4}); m != breath.MediumLava {
		t.Fatalf("expected lava, got %q", m)
	}
	if m := tr.MediumAt(Vec3i{0, 5, 0}); m != breath.MediumAir {
		t.Fatalf("expected air above the water, got %q", m)
	}
}

func TestBodyHeadLevel(t *testing.T) {
	b := Body{Pos: Vec3i{1, 10, 1}, Height: 1.8}
	if b.HeadY() != 1 || !b.IsHeadLevel(1) || b.IsHeadLevel(0) {
		t.Fatalf("expected head at relative y 1, got %d", b.HeadY())
	}
	if hp := b.HeadPos(); hp != (Vec3i{1, 11, 1}) {
		t.Fatalf("unexpected head pos %+v", hp)
	}
	small := Body{Height: 0.4}
	if small.HeadY() != 0 || small.Cells() != 1 {
		t.Fatalf("small bodies keep their head in the feet cell")
	}
}

func TestStateSpawnAndDestroy(t *testing.T) {
	ws := NewState(NewGameClock(0), NewTerrain(breath.MediumAir))
	id, err := ws.Spawn(Body{Key: "diver", Height: 2}, 20)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if _, err := ws.Spawn(Body{Key: "diver"}, 1); err == nil {
		t.Fatalf("expected duplicate key error")
	}
	if got, ok := ws.ByKey("diver"); !ok || got != id || ws.KeyOf(id) != "diver" {
		t.Fatalf("lookup by key failed")
	}
	ws.Breath.Set(id, &breath.State{})

	ws.ECS.MarkForDestruction(id)
	ws.ECS.FlushDestroyQueue()
	if _, ok := ws.ByKey("diver"); ok || ws.Breath.Has(id) || ws.Count() != 0 {
		t.Fatalf("destroyed entity still reachable")
	}
}
