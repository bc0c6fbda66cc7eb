package provider

import (
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"mongomap/src/encryption"
	"mongomap/src/metadata"
	"mongomap/src/serialization"
	"mongomap/src/settings"
	"mongomap/src/validation"
)

// Provider is the data-access configuration surface of the plugin. It runs
// model validation once per model, hands discriminators to the serialization
// registry, and produces/reconciles encryption schemas. It performs no I/O:
// server schemas are fetched by the caller and passed in.
type Provider struct {
	options   *settings.Options
	logger    *zap.SugaredLogger
	validator *validation.Validator
	generator *encryption.SchemaGenerator
	checker   *encryption.SchemaChecker

	mu        sync.Mutex
	validated map[*metadata.Model]bool
}

func New(options *settings.Options, logger *zap.SugaredLogger) *Provider {
	return &Provider{
		options:   options,
		logger:    logger,
		validator: validation.NewValidator(logger),
		generator: encryption.NewSchemaGenerator(logger),
		checker:   encryption.NewSchemaChecker(logger),
		validated: make(map[*metadata.Model]bool),
	}
}

// EnsureModel validates the model, caching success for its lifetime. A model
// either passes every check or no document operations are attempted on it.
func (p *Provider) EnsureModel(model *metadata.Model) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.validated[model] {
		return nil
	}
	if err := p.validator.Validate(model); err != nil {
		return err
	}
	p.validated[model] = true
	return nil
}

// GetSchema returns the generated encryption schema keyed by bare collection
// name. Callers qualify with a database name before configuring the driver.
func (p *Provider) GetSchema(model *metadata.Model) (map[string]bson.M, error) {
	if err := p.EnsureModel(model); err != nil {
		return nil, err
	}
	return p.generator.GetSchema(model)
}

// AutoEncryptionSchemaMap qualifies the generated schema with the configured
// database name, in the "db.collection" form the driver's auto-encryption
// options expect. With auto encryption disabled the map is empty: the model is
// still validated, but no schemas are handed to the driver.
func (p *Provider) AutoEncryptionSchemaMap(model *metadata.Model) (map[string]bson.M, error) {
	if !p.options.AutoEncryption {
		if err := p.EnsureModel(model); err != nil {
			return nil, err
		}
		p.logger.Debugw("auto encryption disabled; returning an empty schema map")
		return map[string]bson.M{}, nil
	}
	schemas, err := p.GetSchema(model)
	if err != nil {
		return nil, err
	}
	qualified := make(map[string]bson.M, len(schemas))
	for collection, doc := range schemas {
		qualified[p.options.DatabaseName+"."+collection] = doc
	}
	return qualified, nil
}

// CheckServerSchema reconciles the schema a collection already carries
// server-side (as fetched by the caller from listCollections) against the
// client schema generated from the model.
func (p *Provider) CheckServerSchema(model *metadata.Model, collection string, serverDoc bson.M) error {
	if err := p.EnsureModel(model); err != nil {
		return err
	}
	server, err := encryption.ParseEncryptedFields(serverDoc)
	if err != nil {
		return fmt.Errorf("server schema for collection %q: %w", collection, err)
	}
	schemas, err := p.generator.GenerateSchemas(model)
	if err != nil {
		return err
	}
	return p.checker.CheckCompatibleSchemas(collection, server, schemas[collection])
}

// RegisterDiscriminators hands the model's hierarchy discriminators to the
// serialization registry.
func (p *Provider) RegisterDiscriminators(model *metadata.Model) error {
	if err := p.EnsureModel(model); err != nil {
		return err
	}
	for root, element := range validation.DiscriminatorMap(model) {
		if err := serialization.Register(root, element); err != nil {
			return err
		}
	}
	return nil
}
