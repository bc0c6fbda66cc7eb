package validation

import (
	"github.com/google/uuid"

	"mongomap/src/bsonmapping"
	"mongomap/src/metadata"
	"mongomap/src/settings"
)

// encryptionScope is the ancestor context threaded through the recursive
// descent. The boolean flags are copied on descend; the key set is shared
// across the whole document-root graph and only ever grows by try-add.
type encryptionScope struct {
	// insideCollection is true once the descent has crossed a
	// collection-valued embedded navigation. Arrays cannot hold individually
	// encrypted leaves.
	insideCollection bool

	// insideOpaque is true once an ancestor navigation is itself encrypted.
	// Everything below it is already ciphertext.
	insideOpaque bool

	// usedKeys maps each claimed data key to the member that claimed it.
	// Uniqueness is scoped to one document root's entity graph.
	usedKeys map[uuid.UUID]string
}

// validateQueryableEncryption descends each document root's entity graph
// checking every encryption-configured property and navigation.
func (v *Validator) validateQueryableEncryption(model *metadata.Model) error {
	for _, root := range model.DocumentRoots() {
		scope := encryptionScope{usedKeys: make(map[uuid.UUID]string)}
		if err := v.validateEntityEncryption(root, scope); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateEntityEncryption(entity *metadata.EntityType, scope encryptionScope) error {
	for _, p := range entity.Properties {
		if p.Encryption == nil {
			continue
		}
		if scope.insideCollection {
			return newError(KindEncryptionMisconfigured, entity.Name, p.Name, "",
				"property %s.%s cannot be encrypted: it is nested inside a collection navigation, and arrays cannot hold individually encrypted fields",
				entity.Name, p.Name)
		}
		if scope.insideOpaque && p.Encryption.QueryType != metadata.QueryTypeNotQueryable {
			return newError(KindEncryptionMisconfigured, entity.Name, p.Name, p.Encryption.QueryType.String(),
				"property %s.%s requests %s encryption inside an already encrypted embedded document",
				entity.Name, p.Name, p.Encryption.QueryType)
		}
		if err := claimDataKey(scope.usedKeys, p.Encryption.DataKeyID, entity.Name, p.Name); err != nil {
			return err
		}

		switch p.Encryption.QueryType {
		case metadata.QueryTypeEquality:
			if err := v.validateEqualityProperty(entity, p); err != nil {
				return err
			}
		case metadata.QueryTypeRange:
			if err := v.validateRangeProperty(entity, p); err != nil {
				return err
			}
		}
	}

	for _, n := range entity.Navigations {
		if !n.IsEmbedded || n.TargetEntity == nil {
			continue
		}
		child := scope
		child.insideCollection = scope.insideCollection || n.IsCollection
		if n.Encryption != nil {
			if err := claimDataKey(scope.usedKeys, n.Encryption.DataKeyID, entity.Name, n.Name); err != nil {
				return err
			}
			child.insideOpaque = true
		}
		if err := v.validateEntityEncryption(n.TargetEntity, child); err != nil {
			return err
		}
	}
	return nil
}

// claimDataKey requires a configured data key and records it, failing when a
// second member in the same document-root graph reuses it.
func claimDataKey(usedKeys map[uuid.UUID]string, keyID *uuid.UUID, entity, member string) error {
	qualified := entity + "." + member
	if keyID == nil {
		return newError(KindMissingConfiguration, entity, member, "",
			"encrypted member %s has no data key configured", qualified)
	}
	if previous, taken := usedKeys[*keyID]; taken {
		return newError(KindEncryptionMisconfigured, entity, member, keyID.String(),
			"data key %s is used by both %s and %s; every encrypted field needs its own key",
			keyID, previous, qualified)
	}
	usedKeys[*keyID] = qualified
	return nil
}

func (v *Validator) validateEqualityProperty(entity *metadata.EntityType, p *metadata.Property) error {
	bsonType, err := bsonmapping.Resolve(p)
	if err != nil {
		return newError(KindEncryptionMisconfigured, entity.Name, p.Name, "",
			"encrypted property %s.%s: %v", entity.Name, p.Name, err)
	}
	switch bsonType {
	case bsonmapping.TypeDecimal, bsonmapping.TypeDouble, bsonmapping.TypeObject:
		return newError(KindEncryptionMisconfigured, entity.Name, p.Name, bsonType,
			"property %s.%s stores as BSON type %q, which cannot be encrypted for equality queries",
			entity.Name, p.Name, bsonType)
	}
	return nil
}

var rangeCapableTypes = map[string]bool{
	bsonmapping.TypeInt:     true,
	bsonmapping.TypeLong:    true,
	bsonmapping.TypeDate:    true,
	bsonmapping.TypeDecimal: true,
	bsonmapping.TypeDouble:  true,
}

func (v *Validator) validateRangeProperty(entity *metadata.EntityType, p *metadata.Property) error {
	bsonType, err := bsonmapping.Resolve(p)
	if err != nil {
		return newError(KindEncryptionMisconfigured, entity.Name, p.Name, "",
			"encrypted property %s.%s: %v", entity.Name, p.Name, err)
	}
	if !rangeCapableTypes[bsonType] {
		return newError(KindEncryptionMisconfigured, entity.Name, p.Name, bsonType,
			"property %s.%s stores as BSON type %q, which cannot be encrypted for range queries",
			entity.Name, p.Name, bsonType)
	}

	hasMin := p.Encryption.Min != nil
	hasMax := p.Encryption.Max != nil
	switch bsonType {
	case bsonmapping.TypeDecimal, bsonmapping.TypeDouble:
		// Unbounded decimal/double ranges blow up the index; the server
		// refuses them, so the model does too.
		if !hasMin || !hasMax {
			return newError(KindMissingConfiguration, entity.Name, p.Name, bsonType,
				"range-encrypted property %s.%s stores as %q and must configure both min and max bounds",
				entity.Name, p.Name, bsonType)
		}
	default:
		if !hasMin || !hasMax {
			if settings.GetSettings().StrictBounds {
				return newError(KindMissingConfiguration, entity.Name, p.Name, bsonType,
					"range-encrypted property %s.%s has no explicit min/max bounds and strict bounds are enabled",
					entity.Name, p.Name)
			}
			v.logger.Warnw("range-encrypted property has no explicit bounds; defaults reduce query performance",
				"entity", entity.Name,
				"property", p.Name,
				"bsonType", bsonType)
		}
	}
	return nil
}
