// Package history records recently viewed entities.
package history

import "github.com/forsidenis/kanban/internal/domain"

type node struct {
	entity domain.Entity
	prev   *node
	next   *node
}

// Tracker keeps one entry per entity id, most recently viewed last.
// It is unbounded and not safe for concurrent use.
type Tracker struct {
	nodes map[int]*node
	head  *node // sentinel before the oldest entry
	tail  *node // sentinel after the newest entry
}

// New creates an empty Tracker.
func New() *Tracker {
	t := &Tracker{
		nodes: make(map[int]*node),
		head:  &node{},
		tail:  &node{},
	}
	t.head.next = t.tail
	t.tail.prev = t.head
	return t
}

// Add records a view of e, evicting any earlier entry for the same id.
// The entry is a copy taken now; later edits to e are not reflected.
func (t *Tracker) Add(e domain.Entity) {
	if e == nil {
		return
	}
	id := e.EntityID()
	if n, ok := t.nodes[id]; ok {
		t.unlink(n)
	}
	n := &node{entity: domain.CloneEntity(e)}
	t.linkBack(n)
	t.nodes[id] = n
}

// Remove drops the entry for id. Returns false if there was none.
func (t *Tracker) Remove(id int) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	t.unlink(n)
	delete(t.nodes, id)
	return true
}

// Contains reports whether id has an entry.
func (t *Tracker) Contains(id int) bool {
	_, ok := t.nodes[id]
	return ok
}

// Entries returns copies of the recorded entities, oldest first.
func (t *Tracker) Entries() []domain.Entity {
	out := make([]domain.Entity, 0, len(t.nodes))
	for n := t.head.next; n != t.tail; n = n.next {
		out = append(out, domain.CloneEntity(n.entity))
	}
	return out
}

// IDs returns the recorded entity ids, oldest first.
func (t *Tracker) IDs() []int {
	out := make([]int, 0, len(t.nodes))
	for n := t.head.next; n != t.tail; n = n.next {
		out = append(out, n.entity.EntityID())
	}
	return out
}

// Len returns the number of entries.
func (t *Tracker) Len() int {
	return len(t.nodes)
}

// Clear drops every entry.
func (t *Tracker) Clear() {
	clear(t.nodes)
	t.head.next = t.tail
	t.tail.prev = t.head
}

func (t *Tracker) linkBack(n *node) {
	last := t.tail.prev
	n.prev = last
	n.next = t.tail
	last.next = n
	t.tail.prev = n
}

func (t *Tracker) unlink(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}
