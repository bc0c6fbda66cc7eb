package serialization

import (
	"errors"
	"fmt"
	"sync"
)

// DiscriminatorRegistry maps hierarchy roots to the element name their
// discriminator is stored under, so documents round-trip through the correct
// subtype. Registration is explicit and idempotent; the validation layer
// produces the map and hands it over, it never pokes at codec internals.
type DiscriminatorRegistry struct {
	mu       sync.RWMutex
	elements map[string]string
}

func NewDiscriminatorRegistry() *DiscriminatorRegistry {
	return &DiscriminatorRegistry{
		elements: make(map[string]string),
	}
}

// Global registry instance
var registry = NewDiscriminatorRegistry()

var ErrConflictingDiscriminator = errors.New("conflicting discriminator registration")

// Register records the discriminator element for a hierarchy root.
// Re-registering the same element is a no-op; a different element fails.
func (r *DiscriminatorRegistry) Register(rootEntity, element string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.elements[rootEntity]; ok {
		if existing == element {
			return nil
		}
		return fmt.Errorf("%w: root %q already registered with element %q, got %q",
			ErrConflictingDiscriminator, rootEntity, existing, element)
	}
	r.elements[rootEntity] = element
	return nil
}

// Lookup returns the discriminator element for a hierarchy root.
func (r *DiscriminatorRegistry) Lookup(rootEntity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	element, ok := r.elements[rootEntity]
	return element, ok
}

// Reset clears the registry. Intended for tests.
func (r *DiscriminatorRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elements = make(map[string]string)
}

// Public convenience functions that use the global registry

func Register(rootEntity, element string) error {
	return registry.Register(rootEntity, element)
}

func Lookup(rootEntity string) (string, bool) {
	return registry.Lookup(rootEntity)
}

func Reset() {
	registry.Reset()
}
