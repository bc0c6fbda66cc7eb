package keyvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"mongomap/src/settings"
)

// Argon2id parameters for deriving the local master key.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	masterKeyLen = 32

	// dataKeyLen matches the key material size the driver's local KMS
	// provider expects.
	dataKeyLen = 96
)

var ErrUnknownDataKey = errors.New("data key not found in vault")

// LocalKeyVault mints and holds data keys for development and test
// auto-encryption setups, wrapping key material with AES-GCM under a
// passphrase-derived master key. Production deployments use an external KMS;
// this vault only stands in for one.
type LocalKeyVault struct {
	mu        sync.RWMutex
	masterKey []byte
	wrapped   map[uuid.UUID][]byte
	namespace string
	logger    *zap.SugaredLogger
}

// NewLocalKeyVault derives the master key from the passphrase and salt. The
// vault serves keys under the configured key-vault namespace.
func NewLocalKeyVault(passphrase string, salt []byte, logger *zap.SugaredLogger) *LocalKeyVault {
	masterKey := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, masterKeyLen)
	return &LocalKeyVault{
		masterKey: masterKey,
		wrapped:   make(map[uuid.UUID][]byte),
		namespace: settings.GetSettings().KeyVaultNamespace,
		logger:    logger,
	}
}

// Namespace is the "db.collection" the driver's auto-encryption options
// address this vault's keys under.
func (v *LocalKeyVault) Namespace() string {
	return v.namespace
}

// CreateDataKey mints a data-key identifier and stores freshly generated,
// wrapped key material under it.
func (v *LocalKeyVault) CreateDataKey() (uuid.UUID, error) {
	material := make([]byte, dataKeyLen)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return uuid.Nil, fmt.Errorf("generating key material: %w", err)
	}
	wrapped, err := encrypt(material, v.masterKey)
	if err != nil {
		return uuid.Nil, fmt.Errorf("wrapping key material: %w", err)
	}

	keyID := uuid.New()
	v.mu.Lock()
	v.wrapped[keyID] = wrapped
	v.mu.Unlock()

	v.logger.Debugw("created data key", "keyId", keyID)
	return keyID, nil
}

// KeyMaterial unwraps and returns the key material for a data key.
func (v *LocalKeyVault) KeyMaterial(keyID uuid.UUID) ([]byte, error) {
	v.mu.RLock()
	wrapped, ok := v.wrapped[keyID]
	v.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataKey, keyID)
	}
	return decrypt(wrapped, v.masterKey)
}

// Helper function to encrypt data
func encrypt(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, data, nil), nil
}

// Helper function to decrypt data
func decrypt(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
