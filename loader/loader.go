// Package loader provides fetch orchestration on top of the lazyload
// core: deduplication of group fetches and stand-in promotion.
//
// The core triggers at most one fetch per interceptor per group, but a
// session that materializes several stand-ins of the same row, or holds
// several partially loaded copies of it, can issue the same group fetch
// more than once. GroupLoader collapses identical in-flight fetches so
// one storage round-trip serves all of them.
package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/syssam/lazyload"
)

// GroupLoader coalesces concurrent fetches of the same fetch group of
// the same entity row. The zero value is ready to use.
type GroupLoader struct {
	group singleflight.Group
}

// New returns a new GroupLoader.
func New() *GroupLoader {
	return &GroupLoader{}
}

// Load routes an attribute touch through the interceptor, collapsing
// concurrent touches of the same (session, entity, identifier, group)
// into one fetch. Non-lazy and already-loaded attributes return
// immediately.
func (l *GroupLoader) Load(ctx context.Context, ic *lazyload.LoadingInterceptor, instance any, attribute string) error {
	group, lazy := ic.GroupOf(attribute)
	if !lazy || ic.IsAttributeLoaded(attribute) {
		return nil
	}
	_, err, _ := l.group.Do(fetchKey(ic, group), func() (any, error) {
		return nil, ic.Access(ctx, instance, attribute)
	})
	return err
}

// fetchKey builds the deduplication key for one group fetch. The fixed
// fields are NUL-delimited and the identifier comes last, tagged with
// its dynamic type, so renderings such as "1" and int64(1) never map to
// the same flight.
func fetchKey(ic *lazyload.LoadingInterceptor, group string) string {
	id := ic.Identifier()
	return fmt.Sprintf("%s\x00%s\x00%s\x00%T\x00%v", ic.Session().ID(), ic.EntityName(), group, id, id)
}

// Materialize promotes a stand-in instance to a real loaded one: it
// fully loads the row identified by the stand-in's key and replaces the
// proxy interceptor with the post-materialization state. Instances that
// do not hold a stand-in are returned unchanged.
func Materialize(ctx context.Context, meta *lazyload.EnhancementMetadata, instance any) error {
	raw, err := meta.ExtractInterceptor(instance)
	if err != nil {
		return err
	}
	proxy, ok := raw.(*lazyload.ProxyInterceptor)
	if !ok {
		return nil
	}
	session := proxy.Session()
	if err := session.LoadEntity(ctx, proxy.Key(), instance); err != nil {
		return err
	}
	_, err = meta.PromoteProxy(instance, proxy.Key().Identifier, session)
	return err
}
