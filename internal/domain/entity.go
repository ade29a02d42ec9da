package domain

// Entity is implemented by the three task kinds.
// The unexported method keeps the set closed to this package.
type Entity interface {
	EntityID() int
	Kind() Kind
	cloneEntity() Entity
}

// CloneEntity returns a deep copy of e.
func CloneEntity(e Entity) Entity {
	if e == nil {
		return nil
	}
	return e.cloneEntity()
}
