// Package codec provides composite-identifier codecs for the lazyload
// runtime.
//
// A composite identifier is an arbitrary value type (usually a struct)
// whose equality cannot be decided with a plain comparison. The codecs
// here reduce identifiers to a canonical byte encoding and derive
// equality from it.
package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/lazyload"
)

// Msgpack is a CompositeCodec backed by msgpack encoding. Two
// identifiers are equal iff their encodings are byte-equal, so
// identifier types should have a deterministic encoding (struct fields
// encode in declaration order; map-typed fields do not and should be
// avoided in identifiers).
type Msgpack struct{}

// Encode returns the msgpack encoding of the identifier.
func (Msgpack) Encode(identifier any) ([]byte, error) {
	b, err := msgpack.Marshal(identifier)
	if err != nil {
		return nil, fmt.Errorf("codec: encoding identifier %v: %w", identifier, err)
	}
	return b, nil
}

// Equal reports whether two identifiers have the same encoding.
// Identifiers that fail to encode compare unequal.
func (c Msgpack) Equal(a, b any) bool {
	ea, err := c.Encode(a)
	if err != nil {
		return false
	}
	eb, err := c.Encode(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

var _ lazyload.CompositeCodec = Msgpack{}
