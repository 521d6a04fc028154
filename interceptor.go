package lazyload

import (
	"context"
	"fmt"
	"sort"
)

// Interceptor is the value an interception slot holds. It is a closed
// union: the only variants are [LoadingInterceptor] and
// [ProxyInterceptor], and consumers match them exhaustively. The
// unexported method prevents implementations outside this package.
type Interceptor interface {
	// EntityName returns the mapped entity name the interceptor was
	// created for.
	EntityName() string

	// Session returns the unit-of-work the interceptor fetches through.
	Session() Session

	lazyInterceptor()
}

// Access routes an attribute touch to the instance's interceptor. It is
// the hook enhanced accessors call before reading or writing a lazy
// attribute. A nil interceptor means the instance is fully materialized
// and the touch proceeds without a fetch.
//
// Access panics if ic is a foreign Interceptor implementation: the slot
// is written only by this package, so any other value means the slot
// contract was violated outside it.
func Access(ctx context.Context, ic Interceptor, instance any, attribute string) error {
	switch ic := ic.(type) {
	case nil:
		return nil
	case *LoadingInterceptor:
		return ic.Access(ctx, instance, attribute)
	case *ProxyInterceptor:
		return ic.Access(ctx, instance, attribute)
	default:
		panic(fmt.Sprintf("lazyload: interception slot holds unrecognized interceptor %T", ic))
	}
}

// LoadingInterceptor tracks which fetch groups of a concrete instance
// are still pending and triggers loading of a group on first access to
// any of its attributes. One interceptor serves one instance.
type LoadingInterceptor struct {
	entityName string
	identifier any
	catalog    *LazyGroupCatalog
	pending    map[string]struct{}
	session    Session
}

func newLoadingInterceptor(entityName string, identifier any, catalog *LazyGroupCatalog, session Session) *LoadingInterceptor {
	groups := catalog.GroupNames()
	pending := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		pending[g] = struct{}{}
	}
	return &LoadingInterceptor{
		entityName: entityName,
		identifier: identifier,
		catalog:    catalog,
		pending:    pending,
		session:    session,
	}
}

func (*LoadingInterceptor) lazyInterceptor() {}

// EntityName returns the mapped entity name.
func (ic *LoadingInterceptor) EntityName() string {
	return ic.entityName
}

// Identifier returns the identifier captured at injection.
func (ic *LoadingInterceptor) Identifier() any {
	return ic.identifier
}

// Session returns the unit-of-work the interceptor fetches through.
func (ic *LoadingInterceptor) Session() Session {
	return ic.session
}

// HasPendingGroups reports whether any fetch group is still unloaded.
func (ic *LoadingInterceptor) HasPendingGroups() bool {
	return len(ic.pending) > 0
}

// PendingGroups returns the names of the fetch groups not yet loaded,
// sorted.
func (ic *LoadingInterceptor) PendingGroups() []string {
	out := make([]string, 0, len(ic.pending))
	for g := range ic.pending {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// GroupOf returns the fetch group of the given attribute. The second
// return value is false when the attribute is not lazy.
func (ic *LoadingInterceptor) GroupOf(attribute string) (string, bool) {
	return ic.catalog.FetchGroupOf(attribute)
}

// IsAttributeLoaded reports whether the given attribute is resident:
// true for every non-lazy attribute, and for a lazy attribute true iff
// its fetch group is no longer pending.
func (ic *LoadingInterceptor) IsAttributeLoaded(attribute string) bool {
	group, lazy := ic.catalog.FetchGroupOf(attribute)
	if !lazy {
		return true
	}
	_, pending := ic.pending[group]
	return !pending
}

// MarkGroupLoaded records that the given fetch group has been loaded.
// It reports whether the group was pending.
func (ic *LoadingInterceptor) MarkGroupLoaded(group string) bool {
	if _, ok := ic.pending[group]; !ok {
		return false
	}
	delete(ic.pending, group)
	return true
}

// Access triggers loading of the attribute's fetch group on first
// touch. Already-loaded and non-lazy attributes pass through without a
// fetch. On a pending attribute the whole group is fetched through the
// session and marked loaded on success.
func (ic *LoadingInterceptor) Access(ctx context.Context, instance any, attribute string) error {
	group, lazy := ic.catalog.FetchGroupOf(attribute)
	if !lazy {
		return nil
	}
	if _, pending := ic.pending[group]; !pending {
		return nil
	}
	if err := ic.session.LoadGroup(ctx, ic.entityName, ic.identifier, group, instance); err != nil {
		return err
	}
	ic.MarkGroupLoaded(group)
	return nil
}

// ProxyInterceptor represents an instance that has not been initialized
// at all beyond its identifier. The first touch of a non-identifier
// attribute triggers full materialization through the session and
// promotes the instance: the slot is handed the post-materialization
// state (a fresh loading interceptor, or nothing when the type has no
// lazy groups) and the stand-in never fetches again.
type ProxyInterceptor struct {
	entityName   string
	idAttrs      map[string]struct{}
	codec        CompositeCodec
	key          EntityKey
	catalog      *LazyGroupCatalog
	session      Session
	materialized bool
}

func newProxyInterceptor(entityName string, identifierAttributes []string, codec CompositeCodec, key EntityKey, catalog *LazyGroupCatalog, session Session) *ProxyInterceptor {
	idAttrs := make(map[string]struct{}, len(identifierAttributes))
	for _, name := range identifierAttributes {
		idAttrs[name] = struct{}{}
	}
	return &ProxyInterceptor{
		entityName: entityName,
		idAttrs:    idAttrs,
		codec:      codec,
		key:        key,
		catalog:    catalog,
		session:    session,
	}
}

func (*ProxyInterceptor) lazyInterceptor() {}

// EntityName returns the mapped entity name.
func (ic *ProxyInterceptor) EntityName() string {
	return ic.entityName
}

// Session returns the unit-of-work the interceptor fetches through.
func (ic *ProxyInterceptor) Session() Session {
	return ic.session
}

// Key returns the entity key identifying the row the stand-in
// represents.
func (ic *ProxyInterceptor) Key() EntityKey {
	return ic.key
}

// Codec returns the composite-identifier codec, or nil for aggregated
// identifiers.
func (ic *ProxyInterceptor) Codec() CompositeCodec {
	return ic.codec
}

// IsIdentifierAttribute reports whether the given attribute is part of
// the identifier. Identifier attributes are readable without
// materializing the stand-in.
func (ic *ProxyInterceptor) IsIdentifierAttribute(attribute string) bool {
	_, ok := ic.idAttrs[attribute]
	return ok
}

// Materialized reports whether the stand-in has already been
// materialized by a prior access.
func (ic *ProxyInterceptor) Materialized() bool {
	return ic.materialized
}

// Access materializes the stand-in on first touch of a non-identifier
// attribute and promotes the instance out of the stand-in state.
// Identifier attributes and any access after materialization pass
// through without a fetch.
func (ic *ProxyInterceptor) Access(ctx context.Context, instance any, attribute string) error {
	if ic.materialized || ic.IsIdentifierAttribute(attribute) {
		return nil
	}
	if err := ic.session.LoadEntity(ctx, ic.key, instance); err != nil {
		return err
	}
	ic.materialized = true
	ic.promote(instance)
	return nil
}

// promote hands the slot the post-materialization state. Lazy groups
// are not carried by a full load, so the successor interceptor starts
// with every group pending.
func (ic *ProxyInterceptor) promote(instance any) {
	slot, ok := instance.(Interceptable)
	if !ok {
		return
	}
	if !ic.catalog.HasLazyAttributes() {
		slot.SetInterceptor(nil)
		return
	}
	slot.SetInterceptor(newLoadingInterceptor(ic.entityName, ic.key.Identifier, ic.catalog, ic.session))
}
