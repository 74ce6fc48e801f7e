// Package cleanup holds the per-tick entity cleanup queue. Producers append
// snapshots; the entity cleanup system drains the queue once per pass.
package cleanup

import "github.com/ibexsim/colony/internal/core/ecs"

// Entry is one pending deletion. Implemented only by CreepCleanup,
// MissionCleanup and OperationCleanup.
type Entry interface {
	Target() ecs.EntityID
	isEntry()
}

// CreepCleanup schedules a unit (and its job) for deletion.
type CreepCleanup struct {
	Entity ecs.EntityID
}

// MissionCleanup is captured at enqueue time. Later changes to the mission
// component do not affect it.
type MissionCleanup struct {
	Entity   ecs.EntityID
	Owner    ecs.EntityID
	Children []ecs.EntityID
	Room     ecs.EntityID
}

// OperationCleanup is captured at enqueue time.
type OperationCleanup struct {
	Entity   ecs.EntityID
	Owner    ecs.EntityID
	Children []ecs.EntityID
}

func (c CreepCleanup) Target() ecs.EntityID     { return c.Entity }
func (c MissionCleanup) Target() ecs.EntityID   { return c.Entity }
func (c OperationCleanup) Target() ecs.EntityID { return c.Entity }

func (CreepCleanup) isEntry()     {}
func (MissionCleanup) isEntry()   {}
func (OperationCleanup) isEntry() {}

// Queue collects entities scheduled for deletion during the current tick.
type Queue struct {
	pending []Entry
}

func NewQueue() *Queue {
	return &Queue{pending: make([]Entry, 0, 32)}
}

func (q *Queue) DeleteCreep(entity ecs.EntityID) {
	q.pending = append(q.pending, CreepCleanup{Entity: entity})
}

func (q *Queue) DeleteMission(c MissionCleanup) {
	q.pending = append(q.pending, c)
}

func (q *Queue) DeleteOperation(c OperationCleanup) {
	q.pending = append(q.pending, c)
}

// Drain moves all pending entries out, leaving the queue empty.
func (q *Queue) Drain() []Entry {
	out := q.pending
	q.pending = make([]Entry, 0, cap(out))
	return out
}

func (q *Queue) Len() int      { return len(q.pending) }
func (q *Queue) IsEmpty() bool { return len(q.pending) == 0 }
