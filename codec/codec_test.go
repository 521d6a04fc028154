package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/lazyload"
	"github.com/syssam/lazyload/codec"
)

// invoiceID is a non-aggregated composite identifier.
type invoiceID struct {
	Seq  int64
	Year int
}

func TestMsgpackEncode(t *testing.T) {
	t.Parallel()

	c := codec.Msgpack{}

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		a, err := c.Encode(invoiceID{Seq: 42, Year: 2026})
		require.NoError(t, err)
		b, err := c.Encode(invoiceID{Seq: 42, Year: 2026})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("unencodable identifier fails", func(t *testing.T) {
		t.Parallel()

		_, err := c.Encode(make(chan int))
		assert.Error(t, err)
	})
}

func TestMsgpackEqual(t *testing.T) {
	t.Parallel()

	c := codec.Msgpack{}

	assert.True(t, c.Equal(invoiceID{Seq: 1, Year: 2026}, invoiceID{Seq: 1, Year: 2026}))
	assert.False(t, c.Equal(invoiceID{Seq: 1, Year: 2026}, invoiceID{Seq: 2, Year: 2026}))
	assert.False(t, c.Equal(invoiceID{Seq: 1, Year: 2026}, make(chan int)))
}

func TestEntityKeyWithMsgpack(t *testing.T) {
	t.Parallel()

	c := codec.Msgpack{}
	a := lazyload.EntityKey{EntityName: "Invoice", Identifier: invoiceID{Seq: 7, Year: 2026}}
	b := lazyload.EntityKey{EntityName: "Invoice", Identifier: invoiceID{Seq: 7, Year: 2026}}
	other := lazyload.EntityKey{EntityName: "Invoice", Identifier: invoiceID{Seq: 8, Year: 2026}}

	assert.True(t, a.Equal(b, c))
	assert.False(t, a.Equal(other, c))
}
