package metadata

import (
	"reflect"

	"github.com/google/uuid"
)

// ValueGenerated describes when the store generates a value for a property.
type ValueGenerated int

const (
	ValueGeneratedNever ValueGenerated = iota
	ValueGeneratedOnAdd
	ValueGeneratedOnUpdate
)

// QueryType is the kind of server-side query an encrypted field supports.
type QueryType int

const (
	// QueryTypeNotQueryable encrypts the field opaquely; the server cannot
	// evaluate any predicate against it.
	QueryTypeNotQueryable QueryType = iota
	QueryTypeEquality
	QueryTypeRange
)

func (q QueryType) String() string {
	switch q {
	case QueryTypeEquality:
		return "equality"
	case QueryTypeRange:
		return "range"
	default:
		return "notQueryable"
	}
}

type Property struct {
	// Name is the logical property name in the model.
	Name string

	// ElementName is the document field name the property serializes to.
	ElementName string

	// GoType is the runtime type of the property value.
	GoType reflect.Type

	// BsonType optionally overrides the storage representation resolved
	// from GoType (e.g. a string stored as an objectId).
	BsonType string

	// IsNullable indicates whether the element may hold null.
	IsNullable bool

	// IsShadow is true when the property exists only in the model, with no
	// member on the runtime type.
	IsShadow bool

	// IsRowVersion marks the property as the entity's concurrency token.
	IsRowVersion bool

	// ValueGenerated is the value-generation strategy for the property.
	ValueGenerated ValueGenerated

	// IsOwnedCollectionIndex marks the internal shadow index an owned
	// collection uses to order its elements. The only key property allowed
	// to be on-update generated.
	IsOwnedCollectionIndex bool

	// Encryption carries the queryable-encryption configuration.
	// Nil means the property is not encrypted.
	Encryption *EncryptionSettings

	Annotations map[string]any
}

// EncryptionSettings is the per-property (or per-navigation) queryable
// encryption configuration.
type EncryptionSettings struct {
	QueryType QueryType

	// DataKeyID references the encryption key in the key vault.
	// Nil means the user has not configured one yet.
	DataKeyID *uuid.UUID

	// Min and Max bound a range-encrypted field. Required for decimal and
	// double storage types, recommended for the rest.
	Min any
	Max any

	// Range tuning parameters, all optional.
	Sparsity   *int64
	Precision  *int32
	TrimFactor *int32

	// Contention tunes the equality/range insert contention factor.
	Contention *int64
}
