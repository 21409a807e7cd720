package component

import (
	"errors"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID is the process-wide slot a component type occupies in every
// world's storage table. Ids are handed out once, when the package-level
// handles (FighterComponent, BrainComponent, ...) initialise.
type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind is the typed key passed to ecs.Get, ecs.Add and the ForEach
// queries, so a lookup for a Fighter can only ever yield a *Fighter.
type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// String names the stored type, for logs.
func (k ComponentKind[T]) String() string {
	return reflect.TypeFor[T]().String()
}

// ComponentHandle is what each component file exports, e.g.
// `var HealthComponent = NewComponent[Health]()`.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
