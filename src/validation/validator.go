package validation

import (
	"strings"

	"go.uber.org/zap"

	"mongomap/src/metadata"
)

// Validator walks a finalized model once, running a fixed sequence of
// invariant checks. The first violation aborts the pass; a model either
// passes every check or is unusable.
type Validator struct {
	logger *zap.SugaredLogger
}

func NewValidator(logger *zap.SugaredLogger) *Validator {
	return &Validator{logger: logger}
}

// Validate runs every check in order and returns the first violation found.
func (v *Validator) Validate(model *metadata.Model) error {
	checks := []func(*metadata.Model) error{
		v.validateRowVersions,
		v.validateUnsupportedAnnotations,
		v.validateElementNames,
		v.validateMutableKeys,
		v.validatePrimaryKeys,
		v.validateMappingStrategy,
		v.validateDiscriminators,
		v.validateQueryableEncryption,
	}
	for _, check := range checks {
		if err := check(model); err != nil {
			return err
		}
	}
	return nil
}

// validateRowVersions rejects entities declaring more than one row-version
// property. A document can only carry one concurrency token.
func (v *Validator) validateRowVersions(model *metadata.Model) error {
	for _, entity := range model.Entities {
		var rowVersions []string
		for _, p := range entity.Properties {
			if p.IsRowVersion {
				rowVersions = append(rowVersions, p.Name)
			}
		}
		if len(rowVersions) > 1 {
			return newError(KindUnsupportedConstruct, entity.Name, strings.Join(rowVersions, ", "), "",
				"entity %q declares more than one row version property: %s",
				entity.Name, strings.Join(rowVersions, ", "))
		}
	}
	return nil
}

// validateUnsupportedAnnotations scans entity-level and non-shadow
// property-level annotations against the denylist.
func (v *Validator) validateUnsupportedAnnotations(model *metadata.Model) error {
	for _, entity := range model.Entities {
		for key := range entity.Annotations {
			if reason, denied := unsupportedAnnotations[key]; denied {
				return newError(KindUnsupportedConstruct, entity.Name, "", key,
					"entity %q uses unsupported annotation %q: %s", entity.Name, key, reason)
			}
		}
		for _, p := range entity.Properties {
			if p.IsShadow {
				continue
			}
			for key := range p.Annotations {
				if reason, denied := unsupportedAnnotations[key]; denied {
					return newError(KindUnsupportedConstruct, entity.Name, p.Name, key,
						"property %s.%s uses unsupported annotation %q: %s",
						entity.Name, p.Name, key, reason)
				}
			}
		}
	}
	return nil
}

// validateElementNames enforces the document-field naming rules: no leading
// '$', no '.', and no two members of an entity sharing an element name. The
// '.' rule exists because the schema engine addresses nested fields with a
// literal dot separator.
func (v *Validator) validateElementNames(model *metadata.Model) error {
	for _, entity := range model.Entities {
		properties := make(map[string]*metadata.Property)
		navigations := make(map[string]*metadata.Navigation)

		for _, p := range entity.Properties {
			if err := checkElementName(entity.Name, p.Name, p.ElementName); err != nil {
				return err
			}
			if other, taken := properties[p.ElementName]; taken {
				return newError(KindInvalidName, entity.Name, p.Name, p.ElementName,
					"entity %q maps both %q and %q to element name %q",
					entity.Name, other.Name, p.Name, p.ElementName)
			}
			properties[p.ElementName] = p
		}

		for _, n := range entity.Navigations {
			if !n.IsEmbedded {
				continue
			}
			if err := checkElementName(entity.Name, n.Name, n.ElementName); err != nil {
				return err
			}
			if other, taken := navigations[n.ElementName]; taken {
				return newError(KindInvalidName, entity.Name, n.Name, n.ElementName,
					"entity %q maps both navigations %q and %q to element name %q",
					entity.Name, other.Name, n.Name, n.ElementName)
			}
			if other, taken := properties[n.ElementName]; taken {
				return newError(KindInvalidName, entity.Name, n.Name, n.ElementName,
					"entity %q maps property %q and navigation %q to the same element name %q",
					entity.Name, other.Name, n.Name, n.ElementName)
			}
			navigations[n.ElementName] = n
		}
	}
	return nil
}

func checkElementName(entity, member, elementName string) error {
	if elementName == "" {
		return newError(KindInvalidName, entity, member, elementName,
			"member %s.%s has an empty element name", entity, member)
	}
	if strings.HasPrefix(elementName, "$") {
		return newError(KindInvalidName, entity, member, elementName,
			"member %s.%s maps to element name %q, which must not start with '$'",
			entity, member, elementName)
	}
	if strings.Contains(elementName, ".") {
		return newError(KindInvalidName, entity, member, elementName,
			"member %s.%s maps to element name %q, which must not contain '.'",
			entity, member, elementName)
	}
	return nil
}

// validateMutableKeys permits an on-update-generated key property only when
// it is the internal shadow index an owned collection orders by.
func (v *Validator) validateMutableKeys(model *metadata.Model) error {
	for _, entity := range model.Entities {
		for _, key := range entity.Keys {
			for _, p := range key.Properties {
				if p.ValueGenerated == metadata.ValueGeneratedOnUpdate && !p.IsOwnedCollectionIndex {
					return newError(KindUnsupportedConstruct, entity.Name, p.Name, "",
						"key property %s.%s is generated on update; mutable keys are not supported",
						entity.Name, p.Name)
				}
			}
		}
	}
	return nil
}

// validatePrimaryKeys requires every document root to declare a
// single-property primary key stored as "_id".
func (v *Validator) validatePrimaryKeys(model *metadata.Model) error {
	for _, entity := range model.DocumentRoots() {
		if entity.PrimaryKey == nil {
			return newError(KindUnsupportedConstruct, entity.Name, "", "",
				"document root %q declares no primary key", entity.Name)
		}
		if len(entity.PrimaryKey.Properties) != 1 {
			var names []string
			for _, p := range entity.PrimaryKey.Properties {
				names = append(names, p.Name)
			}
			return newError(KindUnsupportedConstruct, entity.Name, strings.Join(names, ", "), "",
				"document root %q has a composite primary key (%s); composite keys are not supported",
				entity.Name, strings.Join(names, ", "))
		}
		pk := entity.PrimaryKey.Properties[0]
		if pk.ElementName != "_id" {
			return newError(KindInvalidName, entity.Name, pk.Name, pk.ElementName,
				"primary key %s.%s maps to element name %q; a document root's key must map to %q",
				entity.Name, pk.Name, pk.ElementName, "_id")
		}
	}
	return nil
}

// validateMappingStrategy rejects every inheritance mapping strategy other
// than table-per-hierarchy. A hierarchy shares one collection, disambiguated
// by a discriminator.
func (v *Validator) validateMappingStrategy(model *metadata.Model) error {
	for _, entity := range model.Entities {
		strategy := entity.MappingStrategy
		if strategy == "" || strategy == metadata.TablePerHierarchy {
			continue
		}
		return newError(KindUnsupportedConstruct, entity.Name, "", strategy,
			"entity %q uses mapping strategy %q; only %q is supported",
			entity.Name, strategy, metadata.TablePerHierarchy)
	}
	return nil
}

// validateDiscriminators holds discriminator elements to the same naming
// rules as every other element and requires them to be declared properties.
func (v *Validator) validateDiscriminators(model *metadata.Model) error {
	for _, entity := range model.Entities {
		d := entity.Discriminator
		if d == nil {
			continue
		}
		if entity.FindProperty(d.Name) == nil {
			return newError(KindUnsupportedConstruct, entity.Name, d.Name, "",
				"discriminator %q is not a declared property of entity %q", d.Name, entity.Name)
		}
		if err := checkElementName(entity.Name, d.Name, d.ElementName); err != nil {
			return err
		}
	}
	return nil
}

// DiscriminatorMap collects, per document root with a hierarchy, the element
// name its discriminator is stored under. The caller hands this to the
// serialization registry; validation never reaches into the codec layer.
func DiscriminatorMap(model *metadata.Model) map[string]string {
	result := make(map[string]string)
	for _, entity := range model.DocumentRoots() {
		if entity.Discriminator != nil {
			result[entity.Name] = entity.Discriminator.ElementName
		}
	}
	return result
}
