// Package lazyload implements the runtime protocol for deferred
// materialization of entity state: entities are loaded with only part of
// their attributes resident, and the rest is fetched on first access
// without the caller knowing which attributes are already present.
//
// The package is organized around three pieces:
//
//   - [Interceptable] / [Slot]: the capability an enhanced entity type
//     exposes. Embedding Slot in an entity struct gives its instances a
//     single-valued holder for the active interceptor, replacing the
//     class-rewriting step other runtimes perform at build time.
//   - [LoadingInterceptor] and [ProxyInterceptor]: the two interceptor
//     variants. A loading interceptor tracks which fetch groups of a
//     concrete instance are still pending and triggers a group fetch on
//     first access. A proxy interceptor stands in for an instance that
//     holds nothing but its identifier; the first non-identifier access
//     fetches the whole row once and promotes the slot out of the
//     stand-in state.
//   - [EnhancementMetadata]: the per-entity-type descriptor. Built once
//     from mapping metadata, it decides whether the type is enhanced,
//     creates and injects interceptors, and answers load-state queries.
//
// # Quick Start
//
// Define an enhanced entity by embedding Slot:
//
//	type Invoice struct {
//	    lazyload.Slot
//
//	    ID        int64
//	    Total     float64
//	    LineItems []string
//	    Notes     string
//	}
//
// Build the per-type metadata and attach a loading interceptor when an
// instance is read from storage:
//
//	meta := lazyload.Build("Invoice", reflect.TypeOf(Invoice{}), []string{"id"}, nil,
//	    []lazyload.LazyAttribute{{Name: "lineItems"}, {Name: "notes", Group: "notes"}},
//	    true, nil)
//
//	inv := &Invoice{ID: 7, Total: 99.5}
//	ic, err := meta.InjectLoadingInterceptor(inv, int64(7), session)
//
// Enhanced accessors consult the interceptor before touching a lazy
// attribute:
//
//	func (i *Invoice) QueryLineItems(ctx context.Context) ([]string, error) {
//	    if err := lazyload.Access(ctx, i.GetInterceptor(), i, "lineItems"); err != nil {
//	        return nil, err
//	    }
//	    return i.LineItems, nil
//	}
//
// Descriptors are immutable after construction and safe for concurrent
// use. Instances and their interception slots are not: a given instance
// is expected to be confined to one session at a time, and the package
// performs no locking on its behalf.
package lazyload
