package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vtinadev/leoplay/internal/domain"
	"gopkg.in/yaml.v3"
)

// Catalog is the full set of level definitions keyed by level id.
type Catalog map[string]*domain.LevelDefinition

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	for key, def := range c {
		out[key] = def.Clone()
	}
	return out
}

// Levels returns the level ids in sorted order.
func (c Catalog) Levels() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Loader reads a content catalog from disk. The path may be a single
// manifest file holding every level, or a directory of level_<id>.yaml files
// each holding one level definition.
type Loader struct {
	path string
}

// NewLoader creates a catalog loader for the given path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the catalog.
func (l *Loader) Load() (Catalog, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("stat content path: %w", err)
	}
	if info.IsDir() {
		return l.loadDir()
	}
	return l.loadManifest(l.path)
}

func (l *Loader) loadManifest(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	catalog := make(Catalog)
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", filepath.Base(path), err)
	}
	return catalog, nil
}

func (l *Loader) loadDir() (Catalog, error) {
	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	catalog := make(Catalog)
	for _, entry := range entries {
		if entry.IsDir() || !isLevelFile(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(l.path, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read level file %s: %w", entry.Name(), err)
		}

		var def domain.LevelDefinition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parse level file %s: %w", entry.Name(), err)
		}

		id := levelID(entry.Name())
		if _, exists := catalog[id]; exists {
			return nil, fmt.Errorf("duplicate level file for %s", id)
		}
		catalog[id] = &def
	}

	if len(catalog) == 0 {
		return nil, fmt.Errorf("no level files in %s", l.path)
	}
	return catalog, nil
}

func isLevelFile(name string) bool {
	if !strings.HasPrefix(name, "level_") {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// levelID derives the level id from its filename: level_<id>.yaml -> <id>.
func levelID(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimPrefix(base, "level_")
}
