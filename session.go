package lazyload

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Session is the active unit-of-work an interceptor fetches through.
// Interceptors hold a session reference but never own it; the session is
// owned by the surrounding runtime and outlives none of its instances.
//
// Users implement this interface with their storage layer. Both load
// methods are expected to write the fetched values into instance and may
// block on I/O; cancellation and timeouts are carried by ctx.
type Session interface {
	// ID returns the unit-of-work identity. Used for diagnostics and
	// for scoping fetch deduplication.
	ID() uuid.UUID

	// LoadGroup fetches one named fetch group of the identified entity
	// and writes its attribute values into instance.
	LoadGroup(ctx context.Context, entityName string, identifier any, group string, instance any) error

	// LoadEntity fully materializes the entity identified by key into
	// instance.
	LoadEntity(ctx context.Context, key EntityKey, instance any) error
}

// EntityKey identifies one entity row: the mapped entity name plus its
// identifier value.
type EntityKey struct {
	// EntityName is the mapped entity name.
	EntityName string
	// Identifier is the identifier value. Plain identifiers must be
	// comparable; composite identifiers are compared through a
	// CompositeCodec.
	Identifier any
}

// String returns a human-readable form of the key.
func (k EntityKey) String() string {
	return fmt.Sprintf("%s#%v", k.EntityName, k.Identifier)
}

// Equal reports whether two keys identify the same row. When codec is
// non-nil the identifiers are compared through it; otherwise they are
// compared directly.
func (k EntityKey) Equal(other EntityKey, codec CompositeCodec) bool {
	if k.EntityName != other.EntityName {
		return false
	}
	if codec != nil {
		return codec.Equal(k.Identifier, other.Identifier)
	}
	return k.Identifier == other.Identifier
}

// CompositeCodec is the value-type descriptor for non-aggregated
// composite identifiers. It is supplied to the descriptor at build time
// and consumed opaquely: the core only needs encoding and equality.
//
// See the codec package for a msgpack-backed implementation.
type CompositeCodec interface {
	// Encode returns a canonical byte encoding of the identifier.
	Encode(identifier any) ([]byte, error)

	// Equal reports whether two identifier values are equal.
	Equal(a, b any) bool
}
