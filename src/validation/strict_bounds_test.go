package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mongomap/src/metadata"
	"mongomap/src/settings"
)

func TestStrictBoundsPromotesAdvisoryToError(t *testing.T) {
	options := settings.GetSettings()
	options.StrictBounds = true
	t.Cleanup(func() { options.StrictBounds = false })

	entity := newRoot("Patient",
		&metadata.Property{
			Name:        "Sequence",
			ElementName: "sequence",
			GoType:      intType,
			Encryption:  &metadata.EncryptionSettings{QueryType: metadata.QueryTypeRange, DataKeyID: keyID()},
		},
	)
	err := testValidator().Validate(modelOf(entity))
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindMissingConfiguration, verr.Kind)

	entity.Properties[1].Encryption.Min = 0
	entity.Properties[1].Encryption.Max = 100
	require.NoError(t, testValidator().Validate(modelOf(entity)))
}
