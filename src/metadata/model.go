package metadata

// Model is the finalized, read-only entity model handed to the provider by
// the model-building pipeline. Nothing in this package mutates a Model after
// it has been constructed; the validator and the schema engine treat it as
// immutable input.
type Model struct {
	// Entities is every mapped entity type, document roots and owned
	// sub-objects alike, in declaration order.
	Entities []*EntityType
}

// DocumentRoots returns the entity types that map to their own collection.
func (m *Model) DocumentRoots() []*EntityType {
	var roots []*EntityType
	for _, entity := range m.Entities {
		if entity.IsDocumentRoot {
			roots = append(roots, entity)
		}
	}
	return roots
}

// FindEntity returns the entity type with the given name, or nil.
func (m *Model) FindEntity(name string) *EntityType {
	for _, entity := range m.Entities {
		if entity.Name == name {
			return entity
		}
	}
	return nil
}
