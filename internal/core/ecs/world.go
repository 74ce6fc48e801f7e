package ecs

import "fmt"

// World is the top-level ECS container. It owns the entity pool and the
// component registry. Deletion is immediate; callers that need deferred
// deletion go through the cleanup queue instead.
type World struct {
	pool     *EntityPool
	registry *Registry
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// DeleteEntity strips every registered component and invalidates the handle.
// Deleting a dead handle returns ErrNotAlive and leaves the world untouched.
func (w *World) DeleteEntity(id EntityID) error {
	if !w.pool.Alive(id) {
		return fmt.Errorf("delete %s: %w", id, ErrNotAlive)
	}
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
	return nil
}
