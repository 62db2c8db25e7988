// Package diff compares two snapshots over a declared field set.
package diff

import (
	"sort"

	"github.com/fiffu/billwatch/lib/models"
)

type Kind int

const (
	New Kind = iota
	Changed
)

func (k Kind) String() string {
	if k == New {
		return "new"
	}
	return "changed"
}

type FieldChange struct {
	Field    models.Field
	Old, New string
}

type Change struct {
	Identity string
	Kind     Kind
	Fields   []FieldChange // only for Changed, in field set order
}

// Diff reports every identity of next that is new or has at least one
// relevant field changed relative to prev. Output is sorted by identity.
// Identities only present in prev are not reported.
func Diff[R models.Record](prev, next map[string]R, fields models.FieldSet) []Change {
	ids := make([]string, 0, len(next))
	for id := range next {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var changes []Change
	for _, id := range ids {
		old, seen := prev[id]
		if !seen {
			changes = append(changes, Change{Identity: id, Kind: New})
			continue
		}
		if fc := Compare(old, next[id], fields); len(fc) > 0 {
			changes = append(changes, Change{Identity: id, Kind: Changed, Fields: fc})
		}
	}
	return changes
}

// Compare lists every field whose value differs between two records.
func Compare(old, new models.Record, fields models.FieldSet) []FieldChange {
	var out []FieldChange
	for _, f := range fields {
		o, n := old.Value(f.Key), new.Value(f.Key)
		if o != n {
			out = append(out, FieldChange{Field: f, Old: o, New: n})
		}
	}
	return out
}

// Count tallies changes by kind.
func Count(changes []Change) (created, changed int) {
	for _, c := range changes {
		if c.Kind == New {
			created++
		} else {
			changed++
		}
	}
	return
}
