package valuegen

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mongomap/src/helpers"
	"mongomap/src/metadata"
)

// ValueGenerator produces store-generated values for a property.
type ValueGenerator interface {
	Next() any
}

// ObjectIDGenerator mints new ObjectIDs for "_id" properties.
type ObjectIDGenerator struct{}

func (ObjectIDGenerator) Next() any {
	return primitive.NewObjectID()
}

// UUIDGenerator mints random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) Next() any {
	return uuid.New()
}

// StringUUIDGenerator mints random UUIDs rendered as strings, for string
// keys without an explicit value.
type StringUUIDGenerator struct{}

func (StringUUIDGenerator) Next() any {
	return helpers.GenerateUUID()
}

// SequenceGenerator counts up from zero. Used for the shadow index an owned
// collection orders its elements by.
type SequenceGenerator struct {
	counter atomic.Int64
}

func (g *SequenceGenerator) Next() any {
	return int(g.counter.Add(1) - 1)
}

var (
	objectIDType = reflect.TypeOf(primitive.ObjectID{})
	uuidType     = reflect.TypeOf(uuid.UUID{})
)

// ForProperty picks a generator from the property's type and generation
// strategy. Only on-add generation needs a generator at this layer.
func ForProperty(p *metadata.Property) (ValueGenerator, error) {
	if p.IsOwnedCollectionIndex {
		return &SequenceGenerator{}, nil
	}
	if p.ValueGenerated != metadata.ValueGeneratedOnAdd {
		return nil, fmt.Errorf("property %q is not value-generated on add", p.Name)
	}
	t := p.GoType
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == objectIDType:
		return ObjectIDGenerator{}, nil
	case t == uuidType:
		return UUIDGenerator{}, nil
	case t != nil && t.Kind() == reflect.String:
		return StringUUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("no value generator for property %q of type %s", p.Name, p.GoType)
	}
}
