package ecs

import "github.com/milk9111/mawarena/ecs/component"

// World owns entities, component stores and the frame event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and retires its handle.
// Returns false when e was already dead.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	id := int(e.id())
	for _, s := range w.stores {
		s.Remove(id)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns a snapshot of all live entities.
func Entities(w *World) []Entity {
	return w.entities.entities()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func (w *World) AddComponent(e Entity, id component.ComponentID, value any) error {
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(id, true).Set(int(e.id()), value)
	return nil
}

func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	v := w.store(id, false).Get(int(e.id()))
	return v, v != nil
}

func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).Has(int(e.id()))
}

func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).Remove(int(e.id()))
}
