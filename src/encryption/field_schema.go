package encryption

import (
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query type names as they appear on the wire.
const (
	QueryTypeEquality = "equality"
	QueryTypeRange    = "range"
)

// QueryDescriptor describes the server-side queries an encrypted field
// supports, plus its tuning parameters.
type QueryDescriptor struct {
	QueryType string

	// Min and Max bound a range field. Already encoded in the field's
	// storage representation.
	Min any
	Max any

	Sparsity   *int64
	Precision  *int32
	TrimFactor *int32
	Contention *int64
}

// FieldSchema is one node in a collection's encrypted-fields schema, keyed
// by dotted path. Constructed fresh on every generator call and never
// mutated afterwards.
type FieldSchema struct {
	// Path is the dot-separated document path of the field.
	Path string

	// KeyID is the data key encrypting the field. Nil renders as an
	// explicit null, meaning "let the driver mint one".
	KeyID *uuid.UUID

	// BsonType is the scalar storage type name of the field.
	BsonType string

	// Queries is nil for opaquely encrypted fields.
	Queries *QueryDescriptor
}

// Document renders the field as one element of the encryptedFields.fields
// array.
func (f FieldSchema) Document() bson.D {
	doc := bson.D{
		{Key: "path", Value: f.Path},
		{Key: "keyId", Value: keyIDValue(f.KeyID)},
		{Key: "bsonType", Value: f.BsonType},
	}
	if f.Queries != nil {
		doc = append(doc, bson.E{Key: "queries", Value: f.Queries.document()})
	}
	return doc
}

func (q *QueryDescriptor) document() bson.D {
	doc := bson.D{{Key: "queryType", Value: q.QueryType}}
	if q.Min != nil {
		doc = append(doc, bson.E{Key: "min", Value: q.Min})
	}
	if q.Max != nil {
		doc = append(doc, bson.E{Key: "max", Value: q.Max})
	}
	if q.Sparsity != nil {
		doc = append(doc, bson.E{Key: "sparsity", Value: *q.Sparsity})
	}
	if q.Precision != nil {
		doc = append(doc, bson.E{Key: "precision", Value: *q.Precision})
	}
	if q.TrimFactor != nil {
		doc = append(doc, bson.E{Key: "trimFactor", Value: *q.TrimFactor})
	}
	if q.Contention != nil {
		doc = append(doc, bson.E{Key: "contention", Value: *q.Contention})
	}
	return doc
}

// keyIDValue encodes a data key as a UUID binary (subtype 4), or an explicit
// null when none is configured.
func keyIDValue(keyID *uuid.UUID) any {
	if keyID == nil {
		return primitive.Null{}
	}
	return primitive.Binary{Subtype: 0x04, Data: keyID[:]}
}

// ParseEncryptedFields decodes a server-declared encrypted-fields document,
// as returned under options.encryptedFields by listCollections, back into
// field schemas the checker can consume.
func ParseEncryptedFields(doc bson.M) ([]FieldSchema, error) {
	raw, ok := doc["fields"]
	if !ok {
		return nil, fmt.Errorf("encrypted fields document has no %q array", "fields")
	}
	elements, ok := raw.(bson.A)
	if !ok {
		return nil, fmt.Errorf("encrypted fields document: %q is %T, expected an array", "fields", raw)
	}

	fields := make([]FieldSchema, 0, len(elements))
	for i, element := range elements {
		values, err := asDocument(element)
		if err != nil {
			return nil, fmt.Errorf("encrypted field %d: %w", i, err)
		}

		path, _ := values["path"].(string)
		if path == "" {
			return nil, fmt.Errorf("encrypted field %d has no path", i)
		}
		bsonType, _ := values["bsonType"].(string)

		field := FieldSchema{Path: path, BsonType: bsonType}
		if keyID, err := parseKeyID(values["keyId"]); err != nil {
			return nil, fmt.Errorf("encrypted field %q: %w", path, err)
		} else {
			field.KeyID = keyID
		}

		if rawQueries, ok := values["queries"]; ok && rawQueries != nil {
			queries, err := parseQueries(rawQueries)
			if err != nil {
				return nil, fmt.Errorf("encrypted field %q: %w", path, err)
			}
			field.Queries = queries
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func asDocument(value any) (bson.M, error) {
	switch v := value.(type) {
	case bson.M:
		return v, nil
	case bson.D:
		return v.Map(), nil
	default:
		return nil, fmt.Errorf("expected a document, got %T", value)
	}
}

func parseKeyID(value any) (*uuid.UUID, error) {
	switch v := value.(type) {
	case nil, primitive.Null:
		return nil, nil
	case primitive.Binary:
		if len(v.Data) != 16 {
			return nil, fmt.Errorf("keyId binary has %d bytes, expected 16", len(v.Data))
		}
		keyID, err := uuid.FromBytes(v.Data)
		if err != nil {
			return nil, fmt.Errorf("keyId is not a valid UUID: %w", err)
		}
		return &keyID, nil
	default:
		return nil, fmt.Errorf("keyId is %T, expected binary or null", value)
	}
}

func parseQueries(value any) (*QueryDescriptor, error) {
	// The server accepts a single query document or an array of one; the
	// schemas this provider emits always use the single-document form.
	if list, ok := value.(bson.A); ok {
		if len(list) == 0 {
			return nil, nil
		}
		value = list[0]
	}
	values, err := asDocument(value)
	if err != nil {
		return nil, fmt.Errorf("queries: %w", err)
	}
	queryType, _ := values["queryType"].(string)
	if queryType == "" {
		return nil, fmt.Errorf("queries document has no queryType")
	}
	descriptor := &QueryDescriptor{
		QueryType: queryType,
		Min:       values["min"],
		Max:       values["max"],
	}
	return descriptor, nil
}
