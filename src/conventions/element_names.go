package conventions

import (
	"reflect"
	"strings"

	"mongomap/src/helpers"
	"mongomap/src/metadata"
)

// ApplyElementNames copies bson struct-tag values onto property element
// names. Properties that already have an explicit element name, shadow
// properties, and tag-less members keep what they have; the logical name is
// the fallback.
func ApplyElementNames(entity *metadata.EntityType) {
	for _, p := range entity.Properties {
		if p.ElementName != "" {
			continue
		}
		if name := tagElementName(entity, p.Name); name != "" && !p.IsShadow {
			p.ElementName = name
			continue
		}
		p.ElementName = p.Name
	}
	for _, n := range entity.Navigations {
		if n.ElementName != "" || !n.IsEmbedded {
			continue
		}
		if name := tagElementName(entity, n.Name); name != "" {
			n.ElementName = name
			continue
		}
		n.ElementName = n.Name
	}
}

// DefaultCollectionName names a document root's collection when none is
// configured: the pluralized entity name.
func DefaultCollectionName(entity *metadata.EntityType) string {
	if entity.CollectionName != "" {
		return entity.CollectionName
	}
	return helpers.Pluralize(entity.Name)
}

func tagElementName(entity *metadata.EntityType, member string) string {
	if entity.GoType == nil || entity.GoType.Kind() != reflect.Struct {
		return ""
	}
	field, ok := entity.GoType.FieldByName(member)
	if !ok {
		return ""
	}
	tag := field.Tag.Get("bson")
	if tag == "" {
		return ""
	}
	name := strings.Split(tag, ",")[0]
	if name == "-" {
		return ""
	}
	return name
}
