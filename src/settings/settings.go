package settings

import "sync"

type Options struct {
	// DatabaseName qualifies bare collection names when building the
	// driver's auto-encryption schema map.
	DatabaseName string

	// AutoEncryption enables generating and checking encryption schemas at
	// data-access configuration time.
	AutoEncryption bool

	// KeyVaultNamespace is the "db.collection" holding data keys.
	KeyVaultNamespace string

	// StrictBounds promotes the missing-range-bounds advisory on
	// int/long/date fields to a hard validation error.
	StrictBounds bool
}

var (
	instance *Options
	once     sync.Once
)

// GetSettings returns the global options instance.
func GetSettings() *Options {
	once.Do(func() {
		instance = &Options{
			DatabaseName:      "app",
			KeyVaultNamespace: "encryption.__keyVault",
		}
	})
	return instance
}
