// Package schedule orders scheduled work by start time and detects overlaps.
package schedule

import (
	"cmp"
	"time"

	rbt "github.com/emirpasic/gods/trees/redblacktree"
)

// Interval is a closed time window.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether a and b share any instant.
// Intervals that merely touch (a.End == b.Start) overlap.
func Overlaps(a, b Interval) bool {
	return !(a.End.Before(b.Start) || b.End.Before(a.Start))
}

// Entry is one scheduled entity in the index.
// Fields are ordered to minimize memory padding.
type Entry struct {
	Start   time.Time // Scheduled start
	End     time.Time // Scheduled end (zero when Bounded is false)
	ID      int       // Entity ID
	Bounded bool      // End is known; only bounded entries take part in overlap checks
}

// Interval returns the entry window. ok is false for unbounded entries.
func (e Entry) Interval() (Interval, bool) {
	if !e.Bounded {
		return Interval{}, false
	}
	return Interval{Start: e.Start, End: e.End}, true
}

type key struct {
	start time.Time
	id    int
}

func compareKeys(a, b interface{}) int {
	ka := a.(key)
	kb := b.(key)
	if c := ka.start.Compare(kb.start); c != 0 {
		return c
	}
	return cmp.Compare(ka.id, kb.id)
}

// Index keeps scheduled entries ordered by (start, id).
// It holds at most one entry per id and is not safe for concurrent use.
type Index struct {
	tree *rbt.Tree
	keys map[int]key
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		tree: rbt.NewWith(compareKeys),
		keys: make(map[int]key),
	}
}

// Insert adds e, replacing any existing entry with the same id.
func (x *Index) Insert(e Entry) {
	x.Remove(e.ID)
	k := key{start: e.Start, id: e.ID}
	x.tree.Put(k, e)
	x.keys[e.ID] = k
}

// Remove drops the entry for id. Returns false if there was none.
func (x *Index) Remove(id int) bool {
	k, ok := x.keys[id]
	if !ok {
		return false
	}
	x.tree.Remove(k)
	delete(x.keys, id)
	return true
}

// Contains reports whether id has an entry.
func (x *Index) Contains(id int) bool {
	_, ok := x.keys[id]
	return ok
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.keys)
}

// Clear drops every entry.
func (x *Index) Clear() {
	x.tree.Clear()
	clear(x.keys)
}

// Entries returns all entries in ascending start order.
func (x *Index) Entries() []Entry {
	out := make([]Entry, 0, x.tree.Size())
	it := x.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(Entry))
	}
	return out
}

// Conflict returns the id of the first bounded entry overlapping candidate,
// ignoring excludeID. The walk stops at the first entry starting after
// candidate ends.
func (x *Index) Conflict(candidate Interval, excludeID int) (int, bool) {
	it := x.tree.Iterator()
	for it.Next() {
		e := it.Value().(Entry)
		if e.Start.After(candidate.End) {
			break
		}
		if e.ID == excludeID {
			continue
		}
		if iv, ok := e.Interval(); ok && Overlaps(iv, candidate) {
			return e.ID, true
		}
	}
	return 0, false
}
