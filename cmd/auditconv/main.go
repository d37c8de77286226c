// auditconv converts a breath audit log (.jsonl.zst) into a per-entity YAML
// timeline.
package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/breathing/internal/persist"
)

type Entry struct {
	AtMs   int64  `yaml:"at_ms"`
	Event  string `yaml:"event"`
	Detail string `yaml:"detail,omitempty"`
}

type Timeline struct {
	Entity  string  `yaml:"entity"`
	Damage  uint32  `yaml:"total_damage"`
	Died    bool    `yaml:"died"`
	Entries []Entry `yaml:"entries"`
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: auditconv <breath-*.jsonl.zst> <output.yaml>")
		os.Exit(1)
	}

	recs, err := persist.ReadAuditLog(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	timelines := buildTimelines(recs)

	out, err := os.Create(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "# Breath timeline, generated from %s (%d records)\n", os.Args[1], len(recs))
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(timelines); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d entity timelines to %s\n", len(timelines), os.Args[2])
}

// buildTimelines groups records by entity, sorted by key, each in log order.
func buildTimelines(recs []persist.AuditRecord) []Timeline {
	byKey := make(map[string]*Timeline)
	for _, r := range recs {
		tl, ok := byKey[r.Entity]
		if !ok {
			tl = &Timeline{Entity: r.Entity}
			byKey[r.Entity] = tl
		}
		e := Entry{AtMs: r.NowMs, Event: r.Kind}
		switch r.Kind {
		case "breath":
			switch {
			case r.Cleared:
				e.Event = "breath full"
			case r.IsBreathing != nil && *r.IsBreathing:
				e.Event = "recharging"
				e.Detail = fmt.Sprintf("full at %d", *r.EndMs)
			case r.IsBreathing != nil:
				e.Event = "holding breath"
				e.Detail = fmt.Sprintf("out at %d", *r.EndMs)
				if r.NextDamageMs != nil {
					e.Detail += fmt.Sprintf(", next damage at %d", *r.NextDamageMs)
				}
			}
		case "damage":
			tl.Damage += r.Amount
			e.Detail = fmt.Sprintf("%d in %s", r.Amount, r.Medium)
			if r.HP != nil {
				e.Detail += fmt.Sprintf(", hp %d", *r.HP)
			}
		case "died":
			tl.Died = true
			e.Detail = r.Cause
		}
		tl.Entries = append(tl.Entries, e)
	}

	out := make([]Timeline, 0, len(byKey))
	for _, tl := range byKey {
		out = append(out, *tl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity < out[j].Entity })
	return out
}
