package helpers

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a fresh random UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}

// Pluralize is the naive pluralization used for default collection names.
func Pluralize(name string) string {
	switch {
	case strings.HasSuffix(name, "s"), strings.HasSuffix(name, "x"), strings.HasSuffix(name, "ch"):
		return name + "es"
	case strings.HasSuffix(name, "y") && len(name) > 1 && !isVowel(name[len(name)-2]):
		return name[:len(name)-1] + "ies"
	default:
		return name + "s"
	}
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}
