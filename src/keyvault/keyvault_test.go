package keyvault

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mongomap/src/settings"
)

func TestLocalKeyVault(t *testing.T) {
	vault := NewLocalKeyVault("correct horse battery staple", []byte("pepper"), zap.NewNop().Sugar())

	keyID, err := vault.CreateDataKey()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, keyID)

	material, err := vault.KeyMaterial(keyID)
	require.NoError(t, err)
	assert.Len(t, material, dataKeyLen)

	again, err := vault.KeyMaterial(keyID)
	require.NoError(t, err)
	assert.Equal(t, material, again)

	other, err := vault.CreateDataKey()
	require.NoError(t, err)
	assert.NotEqual(t, keyID, other)
}

func TestVaultNamespace(t *testing.T) {
	vault := NewLocalKeyVault("pass", []byte("salt"), zap.NewNop().Sugar())
	assert.Equal(t, settings.GetSettings().KeyVaultNamespace, vault.Namespace())
	assert.NotEmpty(t, vault.Namespace())
}

func TestKeyMaterialUnknownKey(t *testing.T) {
	vault := NewLocalKeyVault("pass", []byte("salt"), zap.NewNop().Sugar())
	_, err := vault.KeyMaterial(uuid.New())
	require.ErrorIs(t, err, ErrUnknownDataKey)
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	vault := NewLocalKeyVault("pass", []byte("salt"), zap.NewNop().Sugar())
	wrapped, err := encrypt([]byte("plaintext"), vault.masterKey)
	require.NoError(t, err)
	plain, err := decrypt(wrapped, vault.masterKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("plaintext"), plain)
}
