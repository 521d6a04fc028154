package lazyload

import (
	"reflect"
	"sync"
)

// Registry is a process-wide index of enhancement metadata keyed by
// entity struct type. Descriptors are registered once at mapping-load
// time and looked up on every instance operation, so the registry is
// optimized for concurrent reads.
type Registry struct {
	types sync.Map // reflect.Type -> *EnhancementMetadata
	names sync.Map // entity name -> *EnhancementMetadata
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds the descriptor to the registry, replacing any prior
// registration for the same type or entity name.
func (r *Registry) Register(m *EnhancementMetadata) {
	r.types.Store(m.EntityType(), m)
	r.names.Store(m.EntityName(), m)
}

// Lookup returns the descriptor registered for the given struct type.
// A pointer type is normalized to its element.
func (r *Registry) Lookup(entityType reflect.Type) (*EnhancementMetadata, bool) {
	if entityType.Kind() == reflect.Pointer {
		entityType = entityType.Elem()
	}
	m, ok := r.types.Load(entityType)
	if !ok {
		return nil, false
	}
	return m.(*EnhancementMetadata), true
}

// LookupName returns the descriptor registered for the given entity
// name.
func (r *Registry) LookupName(entityName string) (*EnhancementMetadata, bool) {
	m, ok := r.names.Load(entityName)
	if !ok {
		return nil, false
	}
	return m.(*EnhancementMetadata), true
}

// LookupInstance returns the descriptor for the instance's dynamic
// type.
func (r *Registry) LookupInstance(instance any) (*EnhancementMetadata, bool) {
	t := reflect.TypeOf(instance)
	if t == nil {
		return nil, false
	}
	return r.Lookup(t)
}
