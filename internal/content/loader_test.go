package content

import (
	"os"
	"path/filepath"
	"testing"
)

const manifestYAML = `
level1:
  meta:
    levelName: Nivel 1
    animal: tortuga
  subtypes:
    multiple_choice:
      - id: mc-1
        question: "¿Qué animal nada?"
        options: [pez, gato]
        correct: pez
    pair_synonyms:
      - id: ps-1
        pairs:
          - word: feliz
            synonym: contento
level2:
  order: [UNSCRAMBLE_WORD]
  subtypes:
    UNSCRAMBLE_WORD:
      - id: uw-1
        letters: [o, s, l]
        solution: sol
`

func TestLoader_ManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(manifestYAML), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	catalog, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(catalog) != 2 {
		t.Fatalf("len(catalog) = %d; want 2", len(catalog))
	}
	def := catalog["level1"]
	if def == nil {
		t.Fatal("level1 missing")
	}
	if def.Meta.Animal != "tortuga" {
		t.Errorf("Meta.Animal = %q; want tortuga", def.Meta.Animal)
	}

	order := def.SubtypeOrder()
	if len(order) != 2 || order[0] != "multiple_choice" || order[1] != "pair_synonyms" {
		t.Errorf("SubtypeOrder() = %v; want authoring order", order)
	}
}

func TestLoader_Directory(t *testing.T) {
	dir := t.TempDir()

	level := `
subtypes:
  multiple_choice:
    - id: mc-1
      question: "¿?"
      options: [a, b]
      correct: a
`
	if err := os.WriteFile(filepath.Join(dir, "level_intro.yaml"), []byte(level), 0644); err != nil {
		t.Fatalf("write level file: %v", err)
	}
	// Files without the level_ prefix are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("x: 1"), 0644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	catalog, err := NewLoader(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(catalog) != 1 {
		t.Fatalf("len(catalog) = %d; want 1", len(catalog))
	}
	if _, ok := catalog["intro"]; !ok {
		t.Errorf("catalog keys = %v; want [intro]", catalog.Levels())
	}
}

func TestLoader_MissingPath(t *testing.T) {
	if _, err := NewLoader("/does/not/exist").Load(); err == nil {
		t.Error("Load() should fail for a missing path")
	}
}

func TestLoader_EmptyDirectory(t *testing.T) {
	if _, err := NewLoader(t.TempDir()).Load(); err == nil {
		t.Error("Load() should fail for a directory without level files")
	}
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("level1: [not: a: level"), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}
