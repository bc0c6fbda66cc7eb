package validation

// Annotation keys that are meaningless or dangerous under document mapping.
// Membership is checked on entity-level and non-shadow property-level
// annotations; the first match fails validation.
var unsupportedAnnotations = map[string]string{
	"Constructor:Custom":        "custom constructor selection is resolved by the serializer, not the model",
	"Discriminator:Custom":      "custom discriminator conventions conflict with the provider's hierarchy mapping",
	"Dictionary:Representation": "dictionary representation options are a serializer concern",
	"Serializer:Override":       "serializer overrides bypass the provider's element mapping",
	"Relational:ColumnType":     "relational column types have no document equivalent",
	"Relational:ComputedColumn": "computed columns have no document equivalent",
	"Relational:DefaultValue":   "relational default value SQL has no document equivalent",
	"Relational:Sequence":       "relational sequences have no document equivalent",
}
