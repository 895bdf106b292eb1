package memory

import (
	"sync"
)

// Repository keeps values in process memory.
type Repository struct {
	values map[string]string
	mu     sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{values: make(map[string]string)}
}

func (r *Repository) Get(key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *Repository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *Repository) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
