package validation

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mongomap/src/metadata"
)

var (
	float64Type = reflect.TypeOf(float64(0))
	decimalType = reflect.TypeOf(primitive.Decimal128{})
)

func keyID() *uuid.UUID {
	id := uuid.New()
	return &id
}

func TestEncryptedPropertyNeedsDataKey(t *testing.T) {
	entity := newRoot("Patient",
		&metadata.Property{
			Name:        "SSN",
			ElementName: "ssn",
			GoType:      stringType,
			Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality},
		},
	)
	err := testValidator().Validate(modelOf(entity))
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindMissingConfiguration, verr.Kind)
	assert.Contains(t, err.Error(), "Patient.SSN")
}

func TestDataKeyReuseWithinRootGraph(t *testing.T) {
	shared := keyID()
	owned := &metadata.EntityType{
		Name:    "Insurance",
		IsOwned: true,
		Properties: []*metadata.Property{
			{
				Name:        "PolicyNumber",
				ElementName: "policyNumber",
				GoType:      stringType,
				Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality, DataKeyID: shared},
			},
		},
	}
	entity := newRoot("Patient",
		&metadata.Property{
			Name:        "SSN",
			ElementName: "ssn",
			GoType:      stringType,
			Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality, DataKeyID: shared},
		},
	)
	entity.Navigations = []*metadata.Navigation{
		{Name: "Insurance", TargetEntity: owned, ElementName: "insurance", IsEmbedded: true},
	}

	err := testValidator().Validate(modelOf(entity, owned))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Patient.SSN")
	assert.Contains(t, err.Error(), "Insurance.PolicyNumber")

	// The same key on two unrelated roots is fine: uniqueness is scoped to
	// one document root's graph.
	other := newRoot("Visit",
		&metadata.Property{
			Name:        "Notes",
			ElementName: "notes",
			GoType:      stringType,
			Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality, DataKeyID: shared},
		},
	)
	solo := newRoot("Patient",
		&metadata.Property{
			Name:        "SSN",
			ElementName: "ssn",
			GoType:      stringType,
			Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality, DataKeyID: shared},
		},
	)
	require.NoError(t, testValidator().Validate(modelOf(solo, other)))
}

func TestEqualityEncryptionTypeRules(t *testing.T) {
	v := testValidator()

	for _, goType := range []reflect.Type{float64Type, decimalType} {
		entity := newRoot("Patient",
			&metadata.Property{
				Name:        "Score",
				ElementName: "score",
				GoType:      goType,
				Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality, DataKeyID: keyID()},
			},
		)
		err := v.Validate(modelOf(entity))
		require.Error(t, err, "equality encryption must reject %s", goType)
		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, KindEncryptionMisconfigured, verr.Kind)
	}

	entity := newRoot("Patient",
		&metadata.Property{
			Name:        "SSN",
			ElementName: "ssn",
			GoType:      stringType,
			Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality, DataKeyID: keyID()},
		},
	)
	require.NoError(t, v.Validate(modelOf(entity)))
}

func TestRangeEncryptionTypeRules(t *testing.T) {
	v := testValidator()

	t.Run("string cannot be range encrypted", func(t *testing.T) {
		entity := newRoot("Patient",
			&metadata.Property{
				Name:        "SSN",
				ElementName: "ssn",
				GoType:      stringType,
				Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeRange, DataKeyID: keyID()},
			},
		)
		err := v.Validate(modelOf(entity))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"string"`)
	})

	t.Run("double requires both bounds", func(t *testing.T) {
		entity := newRoot("Patient",
			&metadata.Property{
				Name:        "Weight",
				ElementName: "weight",
				GoType:      float64Type,
				Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeRange, DataKeyID: keyID()},
			},
		)
		err := v.Validate(modelOf(entity))
		require.Error(t, err)
		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, KindMissingConfiguration, verr.Kind)

		entity.Properties[1].Encryption.Min = 0.0
		entity.Properties[1].Encryption.Max = 500.0
		require.NoError(t, v.Validate(modelOf(entity)))
	})

	t.Run("int without bounds is an advisory, not an error", func(t *testing.T) {
		entity := newRoot("Patient",
			&metadata.Property{
				Name:        "Sequence",
				ElementName: "sequence",
				GoType:      intType,
				Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeRange, DataKeyID: keyID()},
			},
		)
		require.NoError(t, v.Validate(modelOf(entity)))
	})
}

func TestEncryptionNestingRules(t *testing.T) {
	v := testValidator()

	t.Run("no encrypted leaves under a collection navigation", func(t *testing.T) {
		owned := &metadata.EntityType{
			Name:    "Prescription",
			IsOwned: true,
			Properties: []*metadata.Property{
				{
					Name:        "Drug",
					ElementName: "drug",
					GoType:      stringType,
					Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality, DataKeyID: keyID()},
				},
			},
		}
		entity := newRoot("Patient")
		entity.Navigations = []*metadata.Navigation{
			{Name: "Prescriptions", TargetEntity: owned, ElementName: "prescriptions", IsEmbedded: true, IsCollection: true},
		}
		err := v.Validate(modelOf(entity, owned))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Prescription.Drug")
		assert.Contains(t, err.Error(), "collection")
	})

	t.Run("no queryable encryption under an opaque ancestor", func(t *testing.T) {
		owned := &metadata.EntityType{
			Name:    "Insurance",
			IsOwned: true,
			Properties: []*metadata.Property{
				{
					Name:        "PolicyNumber",
					ElementName: "policyNumber",
					GoType:      stringType,
					Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeEquality, DataKeyID: keyID()},
				},
			},
		}
		entity := newRoot("Patient")
		entity.Navigations = []*metadata.Navigation{
			{
				Name:         "Insurance",
				TargetEntity: owned,
				ElementName:  "insurance",
				IsEmbedded:   true,
				Encryption:   &metadata.EncryptionSettings{QueryType: metadata.QueryTypeNotQueryable, DataKeyID: keyID()},
			},
		}
		err := v.Validate(modelOf(entity, owned))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already encrypted")
	})

	t.Run("opaque navigation requires its own data key", func(t *testing.T) {
		owned := &metadata.EntityType{Name: "Insurance", IsOwned: true}
		entity := newRoot("Patient")
		entity.Navigations = []*metadata.Navigation{
			{
				Name:         "Insurance",
				TargetEntity: owned,
				ElementName:  "insurance",
				IsEmbedded:   true,
				Encryption:   &metadata.EncryptionSettings{QueryType: metadata.QueryTypeNotQueryable},
			},
		}
		err := v.Validate(modelOf(entity, owned))
		require.Error(t, err)
		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, KindMissingConfiguration, verr.Kind)
		assert.Contains(t, err.Error(), "Patient.Insurance")
	})
}
