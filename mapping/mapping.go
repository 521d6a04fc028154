// Package mapping holds the configuration structs that declare, per
// entity, which attributes belong to which lazy fetch group. A mapping
// is loaded from YAML (or built programmatically), validated, and then
// fed to lazyload.Build to produce the per-type descriptor.
package mapping

import (
	"fmt"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/syssam/lazyload"
)

// Config is the root of a mapping document.
type Config struct {
	Entities []*Entity `yaml:"entities"`
}

// Entity declares the laziness mapping of one entity type.
type Entity struct {
	// Name is the mapped entity name.
	Name string `yaml:"name"`
	// Identifier lists the attribute names composing the identifier.
	Identifier []string `yaml:"identifier"`
	// Composite marks the identifier as non-aggregated composite; such
	// entities need a CompositeCodec at build time.
	Composite bool `yaml:"composite,omitempty"`
	// Proxy opts the entity into stand-in loading.
	Proxy bool `yaml:"proxy,omitempty"`
	// Subclasses lists the names of mapped subclasses, if any.
	Subclasses []string `yaml:"subclasses,omitempty"`
	// Attributes lists the non-identifier attributes.
	Attributes []*Attribute `yaml:"attributes"`
}

// Attribute declares one mapped attribute.
type Attribute struct {
	// Name is the attribute name.
	Name string `yaml:"name"`
	// Lazy defers the attribute from initial load.
	Lazy bool `yaml:"lazy,omitempty"`
	// Group is the fetch group of a lazy attribute. Empty means the
	// default group. Setting a group on a non-lazy attribute is a
	// validation error.
	Group string `yaml:"group,omitempty"`
}

// Parse decodes and validates a YAML mapping document.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, NewError("", "", "decoding yaml", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseFile reads and parses a YAML mapping document from path.
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapping: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks the mapping for structural errors.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Entities))
	for _, e := range c.Entities {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := seen[e.Name]; dup {
			return errorf(e.Name, "", "duplicate entity name")
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// Entity returns the entity mapping with the given name, or nil.
func (c *Config) Entity(name string) *Entity {
	for _, e := range c.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Validate checks one entity mapping for structural errors.
func (e *Entity) Validate() error {
	if e.Name == "" {
		return errorf("", "", "entity name is empty")
	}
	if len(e.Identifier) == 0 {
		return errorf(e.Name, "", "identifier attribute set is empty")
	}
	idAttrs := make(map[string]struct{}, len(e.Identifier))
	for _, name := range e.Identifier {
		if name == "" {
			return errorf(e.Name, "", "identifier attribute name is empty")
		}
		if _, dup := idAttrs[name]; dup {
			return errorf(e.Name, name, "duplicate identifier attribute")
		}
		idAttrs[name] = struct{}{}
	}
	seen := make(map[string]struct{}, len(e.Attributes))
	for _, a := range e.Attributes {
		if a.Name == "" {
			return errorf(e.Name, "", "attribute name is empty")
		}
		if _, dup := seen[a.Name]; dup {
			return errorf(e.Name, a.Name, "duplicate attribute")
		}
		seen[a.Name] = struct{}{}
		if _, isID := idAttrs[a.Name]; isID && a.Lazy {
			return errorf(e.Name, a.Name, "identifier attribute cannot be lazy")
		}
		if !a.Lazy && a.Group != "" {
			return errorf(e.Name, a.Name, "fetch group %q set on non-lazy attribute", a.Group)
		}
	}
	return nil
}

// LazyAttributes returns the lazy attributes in catalog form.
func (e *Entity) LazyAttributes() []lazyload.LazyAttribute {
	var out []lazyload.LazyAttribute
	for _, a := range e.Attributes {
		if a.Lazy {
			out = append(out, lazyload.LazyAttribute{Name: a.Name, Group: a.Group})
		}
	}
	return out
}

// HasSubclass is the subclass-existence predicate fed to the catalog
// computation.
func (e *Entity) HasSubclass(name string) bool {
	if name != e.Name {
		return false
	}
	return len(e.Subclasses) > 0
}

// Metadata builds the laziness descriptor for the entity over the given
// runtime type. codec may be nil unless the identifier is composite.
func (e *Entity) Metadata(entityType reflect.Type, codec lazyload.CompositeCodec) (*lazyload.EnhancementMetadata, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.Composite && codec == nil {
		return nil, errorf(e.Name, "", "composite identifier requires a codec")
	}
	return lazyload.Build(
		e.Name,
		entityType,
		e.Identifier,
		codec,
		e.LazyAttributes(),
		e.Proxy,
		e.HasSubclass,
	), nil
}
