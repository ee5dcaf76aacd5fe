package ecs

// World owns the handle pool and the component stores shared by the
// structure registry and the effect simulator. Destruction is immediate:
// once Destroy returns, the handle no longer resolves in any store.
type World struct {
	pool   *EntityPool
	stores []Removable
}

func NewWorld() *World {
	return &World{pool: NewEntityPool()}
}

// Register adds a store to be cleared on Destroy.
func (w *World) Register(store Removable) {
	w.stores = append(w.stores, store)
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy clears id from every registered store and retires the handle.
// Returns false when id was already stale.
func (w *World) Destroy(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(id)
	}
	return w.pool.Destroy(id)
}
