package validation

import "fmt"

// Kind classifies a validation failure. Unsupported constructs and bad names
// are permanent modeling mistakes; missing configuration is something the
// user plausibly supplies later in their setup flow.
type Kind int

const (
	// KindUnsupportedConstruct marks use of a feature outside the provider's
	// supported surface (table-per-type, denylisted annotations, composite keys).
	KindUnsupportedConstruct Kind = iota

	// KindInvalidName marks a bad identifier (non-"_id" primary key element,
	// reserved characters, duplicate element names).
	KindInvalidName

	// KindEncryptionMisconfigured marks an encryption setup that can never
	// work (wrong storage type for the query mode, encryption under an array
	// or an opaquely encrypted ancestor, reused data key).
	KindEncryptionMisconfigured

	// KindMissingConfiguration marks required encryption configuration the
	// user has not supplied yet (absent data key, absent range bounds).
	KindMissingConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedConstruct:
		return "unsupported construct"
	case KindInvalidName:
		return "invalid name"
	case KindEncryptionMisconfigured:
		return "encryption misconfigured"
	case KindMissingConfiguration:
		return "missing configuration"
	default:
		return "unknown"
	}
}

// Error is the single error type every check raises. The first violated
// invariant aborts the remainder of the validation pass.
type Error struct {
	Kind   Kind
	Entity string
	Member string
	Value  string

	message string
}

func (e *Error) Error() string {
	return e.message
}

func newError(kind Kind, entity, member, value, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Entity:  entity,
		Member:  member,
		Value:   value,
		message: fmt.Sprintf(format, args...),
	}
}
