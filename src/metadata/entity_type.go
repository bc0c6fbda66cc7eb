package metadata

import "reflect"

// Inheritance mapping strategies. Only table-per-hierarchy can be represented
// in a single collection; the validator rejects everything else.
const (
	TablePerHierarchy = "TPH"
	TablePerType      = "TPT"
)

type EntityType struct {
	// Name is the display name of the entity.
	Name string

	// GoType is the runtime type the entity maps to. Nil for shadow-only
	// entity types that exist purely in the model.
	GoType reflect.Type

	// CollectionName is the collection a document root is stored in.
	// Empty for owned entity types, which live inside their owner's document.
	CollectionName string

	// Properties in declaration order.
	Properties []*Property

	// Navigations in declaration order.
	Navigations []*Navigation

	// PrimaryKey is the declared primary key, if any.
	PrimaryKey *Key

	// Keys is every declared key, the primary key included.
	Keys []*Key

	// Discriminator is the property that disambiguates subtypes in a
	// table-per-hierarchy mapping. Nil when the entity has no hierarchy.
	Discriminator *Property

	// IsDocumentRoot is true only for top-level, non-owned entities that
	// correspond to one physical stored document.
	IsDocumentRoot bool

	// IsOwned is true for entity types embedded inside another document.
	IsOwned bool

	// MappingStrategy is the inheritance-mapping-strategy annotation.
	// Empty means unset, which is treated as table-per-hierarchy.
	MappingStrategy string

	// Annotations is the generic key/value store the model builder uses to
	// carry provider-specific configuration.
	Annotations map[string]any
}

// Key is a declared entity key over one or more properties.
type Key struct {
	Properties []*Property
}

// FindProperty returns the property with the given logical name, or nil.
func (e *EntityType) FindProperty(name string) *Property {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FindNavigation returns the navigation with the given name, or nil.
func (e *EntityType) FindNavigation(name string) *Navigation {
	for _, n := range e.Navigations {
		if n.Name == name {
			return n
		}
	}
	return nil
}
