package encryption

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// SchemaChecker reconciles a client-declared encryption schema against the
// schema a collection already carries server-side. It is read-only: its only
// outcome is silent success or one error describing the first violated
// mismatch category, listing every offending path in that category.
type SchemaChecker struct {
	logger *zap.SugaredLogger
}

func NewSchemaChecker(logger *zap.SugaredLogger) *SchemaChecker {
	return &SchemaChecker{logger: logger}
}

// CheckCompatibleSchemas compares the two field lists for one collection.
// Categories are checked in a fixed order, structural drift before
// tuning-level drift: fields missing on the server, fields missing on the
// client, mismatched data keys, mismatched BSON types. A client field with
// no key id accepts whatever key the server holds.
func (c *SchemaChecker) CheckCompatibleSchemas(collection string, server, client []FieldSchema) error {
	serverByPath := byPath(server)
	clientByPath := byPath(client)

	var missingOnServer error
	for _, field := range client {
		if _, ok := serverByPath[field.Path]; !ok {
			missingOnServer = multierr.Append(missingOnServer,
				fmt.Errorf("field %q is declared by the client but absent from the server schema", field.Path))
		}
	}
	if missingOnServer != nil {
		return fmt.Errorf("collection %q: encrypted fields missing on the server: %w", collection, missingOnServer)
	}

	var missingOnClient error
	for _, field := range server {
		if _, ok := clientByPath[field.Path]; !ok {
			missingOnClient = multierr.Append(missingOnClient,
				fmt.Errorf("field %q is declared by the server but absent from the client schema", field.Path))
		}
	}
	if missingOnClient != nil {
		return fmt.Errorf("collection %q: encrypted fields missing on the client: %w", collection, missingOnClient)
	}

	var mismatchedKeys error
	for _, field := range client {
		serverField := serverByPath[field.Path]
		if !keysCompatible(field, serverField) {
			mismatchedKeys = multierr.Append(mismatchedKeys,
				fmt.Errorf("field %q is encrypted with different data keys on the client and the server", field.Path))
		}
	}
	if mismatchedKeys != nil {
		return fmt.Errorf("collection %q: encrypted fields with mismatched keys: %w", collection, mismatchedKeys)
	}

	var mismatchedTypes error
	for _, field := range client {
		serverField := serverByPath[field.Path]
		if field.BsonType != serverField.BsonType {
			mismatchedTypes = multierr.Append(mismatchedTypes,
				fmt.Errorf("field %q is declared as %q by the client but %q by the server",
					field.Path, field.BsonType, serverField.BsonType))
		}
	}
	if mismatchedTypes != nil {
		return fmt.Errorf("collection %q: encrypted fields with mismatched types: %w", collection, mismatchedTypes)
	}

	c.logger.Debugw("encryption schemas compatible",
		"collection", collection, "fields", len(client))
	return nil
}

func byPath(fields []FieldSchema) map[string]FieldSchema {
	result := make(map[string]FieldSchema, len(fields))
	for _, field := range fields {
		result[field.Path] = field
	}
	return result
}

// keysCompatible treats an unspecified client key as "accept whatever the
// server has" rather than a mismatch.
func keysCompatible(client, server FieldSchema) bool {
	if client.KeyID == nil {
		return true
	}
	if server.KeyID == nil {
		return false
	}
	return *client.KeyID == *server.KeyID
}
