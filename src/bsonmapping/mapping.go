package bsonmapping

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mongomap/src/metadata"
)

// BSON scalar type names as they appear in encrypted-fields schemas and
// $jsonSchema validators.
const (
	TypeString   = "string"
	TypeInt      = "int"
	TypeLong     = "long"
	TypeDouble   = "double"
	TypeDecimal  = "decimal"
	TypeBool     = "bool"
	TypeDate     = "date"
	TypeObjectID = "objectId"
	TypeBinary   = "binData"
	TypeObject   = "object"
	TypeArray    = "array"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	dateTimeType   = reflect.TypeOf(primitive.DateTime(0))
	decimal128Type = reflect.TypeOf(primitive.Decimal128{})
	objectIDType   = reflect.TypeOf(primitive.ObjectID{})
	uuidType       = reflect.TypeOf(uuid.UUID{})
	byteSliceType  = reflect.TypeOf([]byte(nil))
)

// Resolve maps a property to the BSON scalar type it is stored as.
// An explicit BsonType override on the property wins over the Go type.
func Resolve(p *metadata.Property) (string, error) {
	if p.BsonType != "" {
		return p.BsonType, nil
	}
	if p.GoType == nil {
		return "", fmt.Errorf("property %q has no runtime type and no storage type override", p.Name)
	}
	bsonType, ok := fromGoType(p.GoType)
	if !ok {
		return "", fmt.Errorf("property %q: no BSON mapping for type %s", p.Name, p.GoType)
	}
	return bsonType, nil
}

func fromGoType(t reflect.Type) (string, bool) {
	// A pointer only signals nullability; the storage type is the pointee's.
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case timeType, dateTimeType:
		return TypeDate, true
	case decimal128Type:
		return TypeDecimal, true
	case objectIDType:
		return TypeObjectID, true
	case uuidType, byteSliceType:
		return TypeBinary, true
	}

	switch t.Kind() {
	case reflect.String:
		return TypeString, true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return TypeInt, true
	case reflect.Int64, reflect.Uint64, reflect.Uint:
		return TypeLong, true
	case reflect.Float32, reflect.Float64:
		return TypeDouble, true
	case reflect.Bool:
		return TypeBool, true
	case reflect.Struct, reflect.Map:
		return TypeObject, true
	case reflect.Slice, reflect.Array:
		return TypeArray, true
	default:
		return "", false
	}
}
