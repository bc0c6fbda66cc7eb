package bsonmapping

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mongomap/src/metadata"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		goType   reflect.Type
		expected string
	}{
		{reflect.TypeOf(""), TypeString},
		{reflect.TypeOf(int32(0)), TypeInt},
		{reflect.TypeOf(int64(0)), TypeLong},
		{reflect.TypeOf(float64(0)), TypeDouble},
		{reflect.TypeOf(false), TypeBool},
		{reflect.TypeOf(time.Time{}), TypeDate},
		{reflect.TypeOf(primitive.DateTime(0)), TypeDate},
		{reflect.TypeOf(primitive.Decimal128{}), TypeDecimal},
		{reflect.TypeOf(primitive.ObjectID{}), TypeObjectID},
		{reflect.TypeOf(uuid.UUID{}), TypeBinary},
		{reflect.TypeOf([]byte(nil)), TypeBinary},
		{reflect.TypeOf(map[string]any{}), TypeObject},
		{reflect.TypeOf([]string{}), TypeArray},
		// Pointers only signal nullability.
		{reflect.TypeOf((*string)(nil)), TypeString},
		{reflect.TypeOf((*time.Time)(nil)), TypeDate},
	}
	for _, c := range cases {
		bsonType, err := Resolve(&metadata.Property{Name: "P", GoType: c.goType})
		require.NoError(t, err, "type %s", c.goType)
		assert.Equal(t, c.expected, bsonType, "type %s", c.goType)
	}
}

func TestResolveExplicitOverrideWins(t *testing.T) {
	p := &metadata.Property{Name: "ID", GoType: reflect.TypeOf(""), BsonType: TypeObjectID}
	bsonType, err := Resolve(p)
	require.NoError(t, err)
	assert.Equal(t, TypeObjectID, bsonType)
}

func TestResolveUnmappableType(t *testing.T) {
	p := &metadata.Property{Name: "Callback", GoType: reflect.TypeOf(func() {})}
	_, err := Resolve(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Callback")
}

func TestResolveShadowWithoutOverride(t *testing.T) {
	_, err := Resolve(&metadata.Property{Name: "Hidden"})
	require.Error(t, err)
}
