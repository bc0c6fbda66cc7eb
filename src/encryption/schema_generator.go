package encryption

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"mongomap/src/bsonmapping"
	"mongomap/src/metadata"
)

// SchemaGenerator walks a finalized model and produces, per collection, the
// encrypted-fields schema describing which paths are encrypted and how.
// Safe to call repeatedly and concurrently: it allocates fresh output and
// never mutates the model.
type SchemaGenerator struct {
	logger *zap.SugaredLogger
}

func NewSchemaGenerator(logger *zap.SugaredLogger) *SchemaGenerator {
	return &SchemaGenerator{logger: logger}
}

// GenerateSchemas builds the field-schema list for every document root that
// has at least one encrypted field. Roots with none are omitted entirely.
// Traversal order is the model's declaration order, properties before
// navigations; callers must not assume sorted output.
func (g *SchemaGenerator) GenerateSchemas(model *metadata.Model) (map[string][]FieldSchema, error) {
	result := make(map[string][]FieldSchema)
	for _, root := range model.DocumentRoots() {
		fields, err := g.collectFields(root, "")
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}
		collection := root.CollectionName
		if collection == "" {
			collection = root.Name
		}
		g.logger.Debugw("generated encryption schema",
			"collection", collection, "fields", len(fields))
		result[collection] = fields
	}
	return result, nil
}

// GetSchema renders the generated schemas as encrypted-fields documents,
// keyed by bare collection name. The caller qualifies each name with a
// database before handing the map to the driver's auto-encryption options.
func (g *SchemaGenerator) GetSchema(model *metadata.Model) (map[string]bson.M, error) {
	schemas, err := g.GenerateSchemas(model)
	if err != nil {
		return nil, err
	}
	result := make(map[string]bson.M, len(schemas))
	for collection, fields := range schemas {
		array := make(bson.A, 0, len(fields))
		for _, field := range fields {
			array = append(array, field.Document())
		}
		result[collection] = bson.M{"fields": array}
	}
	return result, nil
}

func (g *SchemaGenerator) collectFields(entity *metadata.EntityType, prefix string) ([]FieldSchema, error) {
	var fields []FieldSchema

	for _, p := range entity.Properties {
		if p.Encryption == nil {
			continue
		}
		bsonType, err := bsonmapping.Resolve(p)
		if err != nil {
			return nil, fmt.Errorf("encryption schema for entity %q: %w", entity.Name, err)
		}
		field := FieldSchema{
			Path:     prefix + p.ElementName,
			KeyID:    p.Encryption.DataKeyID,
			BsonType: bsonType,
		}
		switch p.Encryption.QueryType {
		case metadata.QueryTypeEquality:
			field.Queries = &QueryDescriptor{
				QueryType:  QueryTypeEquality,
				Contention: p.Encryption.Contention,
			}
		case metadata.QueryTypeRange:
			min, err := encodeBound(p.Encryption.Min, bsonType)
			if err != nil {
				return nil, fmt.Errorf("range bound min of %s.%s: %w", entity.Name, p.Name, err)
			}
			max, err := encodeBound(p.Encryption.Max, bsonType)
			if err != nil {
				return nil, fmt.Errorf("range bound max of %s.%s: %w", entity.Name, p.Name, err)
			}
			field.Queries = &QueryDescriptor{
				QueryType:  QueryTypeRange,
				Min:        min,
				Max:        max,
				Sparsity:   p.Encryption.Sparsity,
				Precision:  p.Encryption.Precision,
				TrimFactor: p.Encryption.TrimFactor,
				Contention: p.Encryption.Contention,
			}
		}
		fields = append(fields, field)
	}

	for _, n := range entity.Navigations {
		// Collection navigations cannot hold encrypted leaves; the validator
		// has already rejected any configured below one.
		if !n.IsEmbedded || n.IsCollection || n.TargetEntity == nil {
			continue
		}
		nested, err := g.collectFields(n.TargetEntity, prefix+n.ElementName+".")
		if err != nil {
			return nil, err
		}
		fields = append(fields, nested...)
	}
	return fields, nil
}

// encodeBound converts a range bound to the same storage representation as
// the field's stored values, so a decimal bound is written with the decimal
// encoding rule and a date bound with the date one. Nil bounds pass through.
func encodeBound(value any, bsonType string) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch bsonType {
	case bsonmapping.TypeInt:
		switch v := value.(type) {
		case int32:
			return v, nil
		case int:
			if v >= math.MinInt32 && v <= math.MaxInt32 {
				return int32(v), nil
			}
		case int64:
			if v >= math.MinInt32 && v <= math.MaxInt32 {
				return int32(v), nil
			}
		}
	case bsonmapping.TypeLong:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		}
	case bsonmapping.TypeDouble:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
	case bsonmapping.TypeDecimal:
		switch v := value.(type) {
		case primitive.Decimal128:
			return v, nil
		case string:
			return primitive.ParseDecimal128(v)
		case float64:
			return primitive.ParseDecimal128(fmt.Sprintf("%v", v))
		case int:
			return primitive.ParseDecimal128(fmt.Sprintf("%d", v))
		}
	case bsonmapping.TypeDate:
		switch v := value.(type) {
		case time.Time:
			return primitive.NewDateTimeFromTime(v), nil
		case primitive.DateTime:
			return v, nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) cannot encode as BSON type %q", value, value, bsonType)
}
