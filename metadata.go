package lazyload

import (
	"fmt"
	"reflect"
)

var interceptableType = reflect.TypeOf((*Interceptable)(nil)).Elem()

// IsEnhanced reports whether instances of the given entity type expose
// the [Interceptable] capability. A pointer type is normalized to its
// element. Build runs the same probe once to fix a descriptor's
// enhancement state.
func IsEnhanced(entityType reflect.Type) bool {
	if entityType.Kind() == reflect.Pointer {
		entityType = entityType.Elem()
	}
	return reflect.PointerTo(entityType).Implements(interceptableType)
}

// EnhancementMetadata is the per-entity-type laziness descriptor. It is
// built once from mapping metadata, is immutable thereafter, and is safe
// for concurrent use. All instance-level operations visit the instance's
// interception slot; the descriptor owns neither instances nor slots.
type EnhancementMetadata struct {
	entityName string
	entityType reflect.Type // struct type; instances are *entityType
	idAttrs    []string
	codec      CompositeCodec
	enhanced   bool
	catalog    *LazyGroupCatalog
}

// Build constructs the descriptor for one entity type.
//
// entityType is the mapped struct type (a pointer type is normalized to
// its element). The type is enhanced iff *entityType exposes the
// [Interceptable] capability; non-enhanced types get the sentinel
// catalog and reject every interceptor operation.
//
// identifierAttributes must be non-empty. An empty set indicates
// malformed upstream metadata and panics: the fault is a programming
// error, not a recoverable condition.
func Build(
	entityName string,
	entityType reflect.Type,
	identifierAttributes []string,
	codec CompositeCodec,
	lazyAttributes []LazyAttribute,
	allowProxy bool,
	hasSubclass func(string) bool,
) *EnhancementMetadata {
	if len(identifierAttributes) == 0 {
		panic(fmt.Sprintf("lazyload: entity %s declares no identifier attributes", entityName))
	}
	if entityType.Kind() == reflect.Pointer {
		entityType = entityType.Elem()
	}
	enhanced := IsEnhanced(entityType)
	var catalog *LazyGroupCatalog
	if enhanced {
		catalog = NewCatalog(entityName, lazyAttributes, allowProxy, hasSubclass)
	} else {
		catalog = NonEnhanced(entityName)
	}
	idAttrs := make([]string, len(identifierAttributes))
	copy(idAttrs, identifierAttributes)
	return &EnhancementMetadata{
		entityName: entityName,
		entityType: entityType,
		idAttrs:    idAttrs,
		codec:      codec,
		enhanced:   enhanced,
		catalog:    catalog,
	}
}

// EntityName returns the mapped entity name.
func (m *EnhancementMetadata) EntityName() string {
	return m.entityName
}

// EntityType returns the mapped struct type.
func (m *EnhancementMetadata) EntityType() reflect.Type {
	return m.entityType
}

// Enhanced reports whether instances of the type carry an interception
// slot.
func (m *EnhancementMetadata) Enhanced() bool {
	return m.enhanced
}

// IdentifierAttributes returns the attribute names composing the
// identifier.
func (m *EnhancementMetadata) IdentifierAttributes() []string {
	out := make([]string, len(m.idAttrs))
	copy(out, m.idAttrs)
	return out
}

// Catalog returns the lazy-group catalog for the type.
func (m *EnhancementMetadata) Catalog() *LazyGroupCatalog {
	return m.catalog
}

// HasUnfetchedAttributes reports whether any attribute of the instance
// is not yet resident: always false for a non-enhanced type, true for a
// stand-in, and for a partially loaded instance true iff any fetch
// group is still pending.
func (m *EnhancementMetadata) HasUnfetchedAttributes(instance any) bool {
	if !m.enhanced {
		return false
	}
	switch ic := m.interceptorOf(instance).(type) {
	case *LoadingInterceptor:
		return ic.HasPendingGroups()
	case *ProxyInterceptor:
		return true
	default:
		return false
	}
}

// IsAttributeLoaded reports whether the named attribute of the instance
// is resident. Non-enhanced types are always fully loaded. A stand-in
// reports every attribute loaded: the question is only meaningful at
// fetch-group granularity, and a stand-in has none.
func (m *EnhancementMetadata) IsAttributeLoaded(instance any, attribute string) bool {
	if !m.enhanced {
		return true
	}
	if ic, ok := m.interceptorOf(instance).(*LoadingInterceptor); ok {
		return ic.IsAttributeLoaded(attribute)
	}
	return true
}

// ExtractInterceptor reads the instance's interception slot. An empty
// slot yields (nil, nil). It fails with [NotEnhancedError] when the
// type is not enhanced, and with [TypeMismatchError] when instance is
// not a pointer to the descriptor's type.
//
// The slot is written only through this descriptor, so its contents are
// always a recognized variant; anything else panics as an internal
// consistency fault rather than being coerced.
func (m *EnhancementMetadata) ExtractInterceptor(instance any) (Interceptor, error) {
	slot, err := m.slotOf(instance)
	if err != nil {
		return nil, err
	}
	switch ic := slot.GetInterceptor().(type) {
	case nil:
		return nil, nil
	case *LoadingInterceptor:
		return ic, nil
	case *ProxyInterceptor:
		return ic, nil
	default:
		panic(fmt.Sprintf("lazyload: interception slot of %s holds unrecognized interceptor %T", m.entityName, ic))
	}
}

// InjectInterceptor writes ic into the instance's interception slot,
// unconditionally replacing prior contents. Passing nil clears the
// slot. Preconditions are as for ExtractInterceptor; on failure the
// slot is untouched.
func (m *EnhancementMetadata) InjectInterceptor(instance any, ic Interceptor) error {
	slot, err := m.slotOf(instance)
	if err != nil {
		return err
	}
	slot.SetInterceptor(ic)
	return nil
}

// InjectLoadingInterceptor constructs a loading interceptor seeded with
// every fetch group of the type as pending, injects it, and returns it.
// Subsequent lazy-attribute access on the instance consults the
// returned interceptor.
func (m *EnhancementMetadata) InjectLoadingInterceptor(instance any, identifier any, session Session) (*LoadingInterceptor, error) {
	slot, err := m.slotOf(instance)
	if err != nil {
		return nil, err
	}
	ic := newLoadingInterceptor(m.entityName, identifier, m.catalog, session)
	slot.SetInterceptor(ic)
	return ic, nil
}

// InjectProxyInterceptor constructs a stand-in interceptor for the
// given entity key and injects it. The instance then represents a row
// not yet materialized beyond its identifier; callers needing the
// interceptor go through ExtractInterceptor afterward.
func (m *EnhancementMetadata) InjectProxyInterceptor(instance any, key EntityKey, session Session) error {
	slot, err := m.slotOf(instance)
	if err != nil {
		return err
	}
	slot.SetInterceptor(newProxyInterceptor(m.entityName, m.idAttrs, m.codec, key, m.catalog, session))
	return nil
}

// PromoteProxy replaces a stand-in with the post-materialization state:
// a loading interceptor seeded with the type's fetch groups when any
// exist, or an empty slot when the type has none. It returns the new
// interceptor, nil when the slot was cleared. Promoting an instance
// that does not hold a stand-in is an error-free no-op on the slot
// contract level and follows the same replacement path.
func (m *EnhancementMetadata) PromoteProxy(instance any, identifier any, session Session) (*LoadingInterceptor, error) {
	slot, err := m.slotOf(instance)
	if err != nil {
		return nil, err
	}
	if !m.catalog.HasLazyAttributes() {
		slot.SetInterceptor(nil)
		return nil, nil
	}
	ic := newLoadingInterceptor(m.entityName, identifier, m.catalog, session)
	slot.SetInterceptor(ic)
	return ic, nil
}

// slotOf verifies the operation preconditions and returns the
// instance's slot capability.
func (m *EnhancementMetadata) slotOf(instance any) (Interceptable, error) {
	if !m.enhanced {
		return nil, NewNotEnhancedError(m.entityName, m.entityType)
	}
	t := reflect.TypeOf(instance)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem() != m.entityType {
		return nil, NewTypeMismatchError(m.entityName, m.entityType, instance)
	}
	return instance.(Interceptable), nil
}

// interceptorOf reads the slot for query operations. Query operations
// are total: instances that do not expose the slot, and instances of a
// different type than the descriptor's, read as unintercepted rather
// than having someone else's slot consulted. Strictness lives on the
// mutation and extraction entry points.
func (m *EnhancementMetadata) interceptorOf(instance any) Interceptor {
	t := reflect.TypeOf(instance)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem() != m.entityType {
		return nil
	}
	slot, ok := instance.(Interceptable)
	if !ok {
		return nil
	}
	return slot.GetInterceptor()
}
