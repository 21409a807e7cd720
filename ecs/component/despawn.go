package component

// Despawn marks an entity for removal by the cleanup pass at the end of the
// frame.
type Despawn struct {
	Reason string
}

var DespawnComponent = NewComponent[Despawn]()
