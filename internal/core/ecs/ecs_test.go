package ecs

import "testing"

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	if a.Index() == 0 || !p.Alive(a) {
		t.Fatalf("expected live non-zero entity, got %v", a)
	}
	if p.Alive(0) {
		t.Fatalf("zero id must never be alive")
	}
	p.Destroy(a)
	if p.Alive(a) || p.Count() != 0 {
		t.Fatalf("expected a to be dead")
	}
	b := p.Create()
	if b.Index() != a.Index() || b.Generation() != a.Generation()+1 {
		t.Fatalf("expected recycled index with bumped generation, got %v", b)
	}
	p.Destroy(a) // stale, ignored
	if !p.Alive(b) {
		t.Fatalf("stale destroy killed the new entity")
	}
}

func TestStoreEachIsOrdered(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[int]()
	var ids []EntityID
	for i := 0; i < 20; i++ {
		id := w.CreateEntity()
		v := i
		s.Set(id, &v)
		ids = append(ids, id)
	}
	var seen []EntityID
	s.Each(func(id EntityID, v *int) {
		seen = append(seen, id)
		if *v%2 == 0 {
			s.Remove(id)
		}
	})
	for i := range ids {
		if seen[i] != ids[i] {
			t.Fatalf("expected ascending order at %d: %v != %v", i, seen[i], ids[i])
		}
	}
	if s.Len() != 10 {
		t.Fatalf("expected 10 left, got %d", s.Len())
	}
}

func TestEach2(t *testing.T) {
	w := NewWorld()
	a := NewPtrComponentStore[string]()
	b := NewPtrComponentStore[int]()
	x, y, z := w.CreateEntity(), w.CreateEntity(), w.CreateEntity()
	a.Set(x, new(string))
	a.Set(y, new(string))
	b.Set(y, new(int))
	b.Set(z, new(int))

	var hits []EntityID
	Each2(a, b, func(id EntityID, _ *string, _ *int) { hits = append(hits, id) })
	if len(hits) != 1 || hits[0] != y {
		t.Fatalf("expected only %v, got %v", y, hits)
	}
}

func TestWorldFlushDestroyQueue(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[int]()
	w.Registry().Register(s)

	id := w.CreateEntity()
	s.Set(id, new(int))
	var destroyed []EntityID
	w.OnDestroy(func(id EntityID) { destroyed = append(destroyed, id) })

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	if n := w.FlushDestroyQueue(); n != 1 {
		t.Fatalf("expected 1 destroyed, got %d", n)
	}
	if s.Has(id) || w.Alive(id) || len(destroyed) != 1 || w.Pending() != 0 {
		t.Fatalf("entity not fully destroyed")
	}
}
