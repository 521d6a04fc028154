package lazyload

import "sort"

// DefaultGroup is the fetch group assigned to lazy attributes that do
// not declare an explicit group.
const DefaultGroup = "DEFAULT"

// LazyAttribute describes one lazy-loadable attribute for catalog
// construction.
type LazyAttribute struct {
	// Name is the attribute name.
	Name string
	// Group is the fetch group the attribute belongs to. Empty means
	// DefaultGroup.
	Group string
}

// LazyGroupCatalog is the per-entity-type catalog of lazy attributes and
// their grouping into fetch groups. It is computed once from mapping
// configuration and read-only thereafter.
type LazyGroupCatalog struct {
	entityName   string
	groupOf      map[string]string   // attribute -> fetch group
	members      map[string][]string // fetch group -> attributes, sorted
	groups       []string            // fetch group names, sorted
	proxyAllowed bool
}

// NewCatalog computes the catalog for an enhanced entity type.
//
// Stand-in (proxy) loading is permitted only when allowProxy is set and
// no subclass exists that the proxy mechanism cannot represent; the
// decision is delegated to hasSubclass, which may be nil when the type
// has no subclasses.
func NewCatalog(entityName string, attrs []LazyAttribute, allowProxy bool, hasSubclass func(string) bool) *LazyGroupCatalog {
	c := &LazyGroupCatalog{
		entityName:   entityName,
		groupOf:      make(map[string]string, len(attrs)),
		members:      make(map[string][]string),
		proxyAllowed: allowProxy && (hasSubclass == nil || !hasSubclass(entityName)),
	}
	for _, a := range attrs {
		group := a.Group
		if group == "" {
			group = DefaultGroup
		}
		if _, ok := c.groupOf[a.Name]; ok {
			continue // first declaration wins
		}
		c.groupOf[a.Name] = group
		c.members[group] = append(c.members[group], a.Name)
	}
	for group, names := range c.members {
		sort.Strings(names)
		c.groups = append(c.groups, group)
	}
	sort.Strings(c.groups)
	return c
}

// NonEnhanced returns the sentinel catalog for an entity type that is
// not enhanced: no group data, stand-in loading disallowed.
func NonEnhanced(entityName string) *LazyGroupCatalog {
	return &LazyGroupCatalog{entityName: entityName}
}

// EntityName returns the mapped entity name the catalog was built for.
func (c *LazyGroupCatalog) EntityName() string {
	return c.entityName
}

// HasLazyAttributes reports whether any attribute is lazily loaded.
func (c *LazyGroupCatalog) HasLazyAttributes() bool {
	return len(c.groupOf) > 0
}

// GroupNames returns the fetch group names, sorted.
func (c *LazyGroupCatalog) GroupNames() []string {
	out := make([]string, len(c.groups))
	copy(out, c.groups)
	return out
}

// AttributesInGroup returns the attribute names belonging to the given
// fetch group, sorted. It returns nil for an unknown group.
func (c *LazyGroupCatalog) AttributesInGroup(group string) []string {
	names, ok := c.members[group]
	if !ok {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// FetchGroupOf returns the fetch group of the given attribute. The
// second return value is false when the attribute is not lazy.
func (c *LazyGroupCatalog) FetchGroupOf(attribute string) (string, bool) {
	group, ok := c.groupOf[attribute]
	return group, ok
}

// LazyAttributeNames returns all lazy attribute names, sorted.
func (c *LazyGroupCatalog) LazyAttributeNames() []string {
	out := make([]string, 0, len(c.groupOf))
	for name := range c.groupOf {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ProxyAllowed reports whether instances of this type may be loaded as
// a stand-in.
func (c *LazyGroupCatalog) ProxyAllowed() bool {
	return c.proxyAllowed
}
