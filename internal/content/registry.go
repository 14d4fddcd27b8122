package content

import (
	"fmt"
	"sync"

	"github.com/vtinadev/leoplay/internal/domain"
)

// Registry holds the loaded, validated catalog behind a read lock. Callers
// always get deep copies, so nothing outside the registry can mutate the
// shared content.
type Registry struct {
	loader    *Loader
	validator *Validator

	mu      sync.RWMutex
	catalog Catalog
	report  *Report
}

// NewRegistry creates a registry over the given loader and validator.
func NewRegistry(loader *Loader, validator *Validator) *Registry {
	return &Registry{loader: loader, validator: validator}
}

// Load reads the catalog from disk, harmonizes and validates it, and swaps it
// in. A catalog with validation errors still loads; the report records them.
func (r *Registry) Load() error {
	catalog, err := r.loader.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	report := r.validator.Validate(catalog)

	r.mu.Lock()
	r.catalog = catalog
	r.report = report
	r.mu.Unlock()
	return nil
}

// Reload re-reads the catalog from disk.
func (r *Registry) Reload() error {
	return r.Load()
}

// Level returns a deep copy of one level definition.
func (r *Registry) Level(id string) (*domain.LevelDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.catalog[id]
	if !ok {
		return nil, fmt.Errorf("level %s: %w", id, domain.ErrLevelNotFound)
	}
	return def.Clone(), nil
}

// Levels returns the sorted level ids.
func (r *Registry) Levels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Levels()
}

// Report returns the validation report of the last load.
func (r *Registry) Report() *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.report
}

// SetCatalog installs an in-memory catalog directly, validating it first.
// Used by tests and by callers that build content programmatically.
func (r *Registry) SetCatalog(catalog Catalog) *Report {
	report := r.validator.Validate(catalog)

	r.mu.Lock()
	r.catalog = catalog
	r.report = report
	r.mu.Unlock()
	return report
}
