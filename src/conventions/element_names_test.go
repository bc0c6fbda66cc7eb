package conventions

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"mongomap/src/metadata"
)

type patient struct {
	SSN      string `bson:"ssn"`
	Ignored  string `bson:"-"`
	Untagged string
}

func TestApplyElementNames(t *testing.T) {
	entity := &metadata.EntityType{
		Name:   "Patient",
		GoType: reflect.TypeOf(patient{}),
		Properties: []*metadata.Property{
			{Name: "SSN"},
			{Name: "Ignored"},
			{Name: "Untagged"},
			{Name: "Explicit", ElementName: "explicit_name"},
			{Name: "Shadow", IsShadow: true},
		},
	}
	ApplyElementNames(entity)

	assert.Equal(t, "ssn", entity.Properties[0].ElementName)
	assert.Equal(t, "Ignored", entity.Properties[1].ElementName)
	assert.Equal(t, "Untagged", entity.Properties[2].ElementName)
	assert.Equal(t, "explicit_name", entity.Properties[3].ElementName)
	assert.Equal(t, "Shadow", entity.Properties[4].ElementName)
}

func TestDefaultCollectionName(t *testing.T) {
	assert.Equal(t, "Patients", DefaultCollectionName(&metadata.EntityType{Name: "Patient"}))
	assert.Equal(t, "Addresses", DefaultCollectionName(&metadata.EntityType{Name: "Address"}))
	assert.Equal(t, "Categories", DefaultCollectionName(&metadata.EntityType{Name: "Category"}))
	assert.Equal(t, "orders", DefaultCollectionName(&metadata.EntityType{Name: "Order", CollectionName: "orders"}))
}
