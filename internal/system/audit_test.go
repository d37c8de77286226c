package system

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/persist"
)

func TestShutdownRecordsFinalTick(t *testing.T) {
	out, err := persist.OpenAuditLog(t.TempDir(), "breath", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	h := newHarness(t, nil)
	h.runner.Register(NewAuditSystem(h.bus, out, zap.NewNop()))
	h.spawn("diver", surface)
	h.move.Schedule(Move{AtMs: 1000, Key: "diver", Pos: seabed})

	// stop on the death tick; its events are still queued on the bus
	h.runUntil(17100)
	Shutdown(h.bus, h.persist, zap.NewNop())
	if h.bus.Pending() != 0 || len(h.died) != 1 {
		t.Fatalf("expected final tick delivered, pending=%d died=%v", h.bus.Pending(), h.died)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	recs, err := persist.ReadAuditLog(out.Path())
	if err != nil {
		t.Fatalf("ReadAuditLog: %v", err)
	}
	counts := make(map[string]int)
	for _, r := range recs {
		counts[r.Kind]++
	}
	// dive, three damage reschedules, removal on death
	if counts["breath"] != 5 || counts["damage"] != 3 || counts["died"] != 1 {
		t.Fatalf("unexpected audit counts %v", counts)
	}
	last := recs[len(recs)-1]
	if last.Kind != "died" || last.Entity != "diver" || last.Cause != DamageDrowning || last.NowMs != 17100 {
		t.Fatalf("unexpected last record %+v", last)
	}
	if recs[0].Kind != "breath" || recs[0].IsBreathing == nil || *recs[0].IsBreathing || *recs[0].EndMs != 11000 {
		t.Fatalf("unexpected dive record %+v", recs[0])
	}
	var next []int64
	for _, r := range recs {
		if r.Kind == "breath" && r.NextDamageMs != nil {
			next = append(next, *r.NextDamageMs)
		}
	}
	want := []int64{13000, 15000, 17000, 19000}
	if len(next) != len(want) {
		t.Fatalf("expected next damage times %v, got %v", want, next)
	}
	for i := range want {
		if next[i] != want[i] {
			t.Fatalf("expected next damage times %v, got %v", want, next)
		}
	}
}

func TestAuditOmitsNeverDamageTime(t *testing.T) {
	out, err := persist.OpenAuditLog(t.TempDir(), "breath", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	h := newHarness(t, nil)
	h.runner.Register(NewAuditSystem(h.bus, out, zap.NewNop()))
	h.spawn("diver", surface)
	h.move.Schedule(
		Move{AtMs: 1000, Key: "diver", Pos: seabed},
		Move{AtMs: 3000, Key: "diver", Pos: surface},
	)
	h.runUntil(3000)
	Shutdown(h.bus, h.persist, zap.NewNop())
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	recs, err := persist.ReadAuditLog(out.Path())
	if err != nil {
		t.Fatalf("ReadAuditLog: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected dive and resurface records, got %+v", recs)
	}
	up := recs[1]
	if up.IsBreathing == nil || !*up.IsBreathing || up.NextDamageMs != nil {
		t.Fatalf("recharge record must carry no damage time, got %+v", up)
	}
}
