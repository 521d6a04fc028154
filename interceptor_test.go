package lazyload_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/lazyload"
)

func TestLoadingInterceptorAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("non-lazy attribute passes through", func(t *testing.T) {
		t.Parallel()

		meta := invoiceMetadata(t)
		session := newRecordingSession()
		inv := &Invoice{ID: 1}
		ic, err := meta.InjectLoadingInterceptor(inv, int64(1), session)
		require.NoError(t, err)

		require.NoError(t, ic.Access(ctx, inv, "total"))
		assert.Empty(t, session.groupLoads)
	})

	t.Run("first touch fetches the whole group once", func(t *testing.T) {
		t.Parallel()

		meta := invoiceMetadata(t)
		session := newRecordingSession()
		inv := &Invoice{ID: 1}
		ic, err := meta.InjectLoadingInterceptor(inv, int64(1), session)
		require.NoError(t, err)

		require.NoError(t, ic.Access(ctx, inv, "lineItems"))
		assert.Equal(t, []string{"Invoice/1/lineItems"}, session.groupLoads)
		assert.True(t, ic.IsAttributeLoaded("lineItems"))
		assert.False(t, ic.IsAttributeLoaded("notes"))

		// Second touch is resident, no fetch.
		require.NoError(t, ic.Access(ctx, inv, "lineItems"))
		assert.Equal(t, 1, session.groupLoadCount())
	})

	t.Run("failed fetch leaves the group pending", func(t *testing.T) {
		t.Parallel()

		meta := invoiceMetadata(t)
		session := newRecordingSession()
		session.groupErr = errors.New("connection reset")
		inv := &Invoice{ID: 1}
		ic, err := meta.InjectLoadingInterceptor(inv, int64(1), session)
		require.NoError(t, err)

		err = ic.Access(ctx, inv, "notes")
		require.Error(t, err)
		assert.False(t, ic.IsAttributeLoaded("notes"))
		assert.Equal(t, []string{"lineItems", "notes"}, ic.PendingGroups())
	})

	t.Run("group lookup", func(t *testing.T) {
		t.Parallel()

		meta := invoiceMetadata(t)
		inv := &Invoice{ID: 1}
		ic, err := meta.InjectLoadingInterceptor(inv, int64(1), newRecordingSession())
		require.NoError(t, err)

		group, lazy := ic.GroupOf("notes")
		require.True(t, lazy)
		assert.Equal(t, "notes", group)

		_, lazy = ic.GroupOf("total")
		assert.False(t, lazy)
	})
}

func TestProxyInterceptorAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	key := lazyload.EntityKey{EntityName: "Invoice", Identifier: int64(3)}

	newProxy := func(t *testing.T, session *recordingSession) (*Invoice, *lazyload.ProxyInterceptor) {
		t.Helper()
		meta := invoiceMetadata(t)
		inv := &Invoice{ID: 3}
		require.NoError(t, meta.InjectProxyInterceptor(inv, key, session))
		raw, err := meta.ExtractInterceptor(inv)
		require.NoError(t, err)
		proxy, ok := raw.(*lazyload.ProxyInterceptor)
		require.True(t, ok)
		return inv, proxy
	}

	t.Run("identifier access does not materialize", func(t *testing.T) {
		t.Parallel()

		session := newRecordingSession()
		inv, proxy := newProxy(t, session)
		require.NoError(t, proxy.Access(ctx, inv, "id"))
		assert.Empty(t, session.entityLoads)
	})

	t.Run("non-identifier access materializes", func(t *testing.T) {
		t.Parallel()

		session := newRecordingSession()
		inv, proxy := newProxy(t, session)
		require.NoError(t, proxy.Access(ctx, inv, "total"))
		assert.Equal(t, []lazyload.EntityKey{key}, session.entityLoads)
		assert.True(t, proxy.Materialized())
	})

	t.Run("only the first touch fetches", func(t *testing.T) {
		t.Parallel()

		session := newRecordingSession()
		inv, _ := newProxy(t, session)

		require.NoError(t, lazyload.Access(ctx, inv.GetInterceptor(), inv, "total"))
		require.NoError(t, lazyload.Access(ctx, inv.GetInterceptor(), inv, "notes"))
		assert.Equal(t, 1, session.entityLoadCount())
	})

	t.Run("first touch promotes the slot", func(t *testing.T) {
		t.Parallel()

		session := newRecordingSession()
		inv, proxy := newProxy(t, session)
		require.NoError(t, proxy.Access(ctx, inv, "total"))

		// A full load does not carry the lazy groups, so the successor
		// interceptor has them all pending.
		loading, ok := inv.GetInterceptor().(*lazyload.LoadingInterceptor)
		require.True(t, ok)
		assert.Equal(t, []string{"lineItems", "notes"}, loading.PendingGroups())
		assert.Equal(t, key.Identifier, loading.Identifier())
	})

	t.Run("stale stand-in reference does not refetch", func(t *testing.T) {
		t.Parallel()

		session := newRecordingSession()
		inv, proxy := newProxy(t, session)
		require.NoError(t, proxy.Access(ctx, inv, "total"))
		require.NoError(t, proxy.Access(ctx, inv, "notes"))
		assert.Equal(t, 1, session.entityLoadCount())
	})

	t.Run("fetch error surfaces and leaves the stand-in", func(t *testing.T) {
		t.Parallel()

		session := newRecordingSession()
		session.entityErr = errors.New("row vanished")
		inv, proxy := newProxy(t, session)
		assert.Error(t, proxy.Access(ctx, inv, "notes"))
		assert.False(t, proxy.Materialized())
		assert.Same(t, proxy, inv.GetInterceptor().(*lazyload.ProxyInterceptor))

		session.entityErr = nil
		require.NoError(t, proxy.Access(ctx, inv, "notes"))
		assert.Equal(t, 1, session.entityLoadCount())
	})

	t.Run("promotion clears the slot when no lazy groups exist", func(t *testing.T) {
		t.Parallel()

		eager := lazyload.Build("Receipt", reflect.TypeOf(Receipt{}), []string{"id"}, nil, nil, true, nil)
		session := newRecordingSession()
		rec := &Receipt{ID: 9}
		recKey := lazyload.EntityKey{EntityName: "Receipt", Identifier: int64(9)}
		require.NoError(t, eager.InjectProxyInterceptor(rec, recKey, session))

		require.NoError(t, lazyload.Access(ctx, rec.GetInterceptor(), rec, "total"))
		assert.Nil(t, rec.GetInterceptor())
		assert.False(t, eager.HasUnfetchedAttributes(rec))
		assert.Equal(t, 1, session.entityLoadCount())
	})

	t.Run("accessors", func(t *testing.T) {
		t.Parallel()

		session := newRecordingSession()
		_, proxy := newProxy(t, session)
		assert.Equal(t, "Invoice", proxy.EntityName())
		assert.Equal(t, key, proxy.Key())
		assert.Nil(t, proxy.Codec())
		assert.Same(t, session, proxy.Session().(*recordingSession))
	})
}
