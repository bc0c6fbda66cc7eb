package metadata

type Navigation struct {
	// Name is the navigation's name on the declaring entity.
	Name string

	// TargetEntity is the entity type the navigation points at.
	TargetEntity *EntityType

	// ElementName is the document field the target nests under when the
	// navigation is embedded.
	ElementName string

	// IsEmbedded is true when the target is stored inside the declaring
	// entity's document rather than referenced.
	IsEmbedded bool

	// IsCollection is true when the navigation holds many targets.
	IsCollection bool

	// Encryption on the owning relationship encrypts the whole embedded
	// subdocument opaquely. Nil means the subdocument is stored in the clear
	// (its own properties may still be individually encrypted).
	Encryption *EncryptionSettings
}
