package lazyload

// Interceptable is the capability an enhanced entity type exposes: a
// single-valued, per-instance holder for the active interceptor.
//
// Other persistence runtimes obtain this capability by rewriting the
// entity class at build time. Here it is obtained structurally, by
// embedding [Slot] in the entity struct. The descriptor probes for this
// interface once, at build time, to decide whether a type is enhanced.
type Interceptable interface {
	// GetInterceptor returns the interceptor currently occupying the
	// slot, or nil if the instance is unintercepted.
	GetInterceptor() Interceptor

	// SetInterceptor replaces the slot's contents. Passing nil clears
	// the slot. Last write wins; prior contents are not inspected.
	SetInterceptor(Interceptor)
}

// Slot is a ready-made Interceptable for embedding into entity structs:
//
//	type Invoice struct {
//	    lazyload.Slot
//	    ...
//	}
//
// Embedding Slot makes *Invoice an enhanced type. The slot holds at most
// one interceptor at a time and is owned by exactly one instance.
type Slot struct {
	interceptor Interceptor
}

// GetInterceptor returns the interceptor currently occupying the slot.
func (s *Slot) GetInterceptor() Interceptor {
	return s.interceptor
}

// SetInterceptor replaces the slot's contents.
func (s *Slot) SetInterceptor(ic Interceptor) {
	s.interceptor = ic
}

var _ Interceptable = (*Slot)(nil)
