// Package command holds deferred mutations that must apply after the
// current system pass completes, e.g. attaching behavior state to a freshly
// produced unit. The queue is drained at exactly one point in the tick.
package command

// Command mutates T when the queue is flushed.
type Command[T any] func(T)

// Queue is an append-only list of commands for the current tick.
type Queue[T any] struct {
	pending []Command[T]
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{pending: make([]Command[T], 0, 32)}
}

// Push appends a command.
func (q *Queue[T]) Push(cmd Command[T]) {
	q.pending = append(q.pending, cmd)
}

func (q *Queue[T]) Len() int { return len(q.pending) }

// Flush applies commands in FIFO order. Commands pushed while flushing run in
// the same flush. Returns the number of commands applied.
func (q *Queue[T]) Flush(target T) int {
	n := 0
	for len(q.pending) > 0 {
		batch := q.pending
		q.pending = make([]Command[T], 0, cap(batch))
		for _, cmd := range batch {
			cmd(target)
			n++
		}
	}
	return n
}
