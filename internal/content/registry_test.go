package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vtinadev/leoplay/internal/domain"
)

func loadedRegistry(t *testing.T) *Registry {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(manifestYAML), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	r := NewRegistry(NewLoader(path), NewValidator(nil))
	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return r
}

func TestRegistry_LevelReturnsDeepCopy(t *testing.T) {
	r := loadedRegistry(t)

	first, err := r.Level("level1")
	if err != nil {
		t.Fatalf("Level() error = %v", err)
	}
	first.Subtypes["multiple_choice"][0].ID = "mutated"
	first.Meta.Animal = "mutated"

	second, err := r.Level("level1")
	if err != nil {
		t.Fatalf("Level() error = %v", err)
	}
	if second.Subtypes["multiple_choice"][0].ID != "mc-1" {
		t.Error("mutating a returned level leaked into the registry")
	}
	if second.Meta.Animal != "tortuga" {
		t.Error("mutating returned meta leaked into the registry")
	}
}

func TestRegistry_UnknownLevel(t *testing.T) {
	r := loadedRegistry(t)

	_, err := r.Level("level99")
	if !errors.Is(err, domain.ErrLevelNotFound) {
		t.Errorf("Level() error = %v; want ErrLevelNotFound", err)
	}
}

func TestRegistry_ReportAfterLoad(t *testing.T) {
	r := loadedRegistry(t)

	report := r.Report()
	if report == nil {
		t.Fatal("Report() = nil after Load")
	}
	if !report.Valid {
		t.Errorf("Report().Valid = false; errors: %v", collectErrors(report))
	}
}

func TestRegistry_Levels(t *testing.T) {
	r := loadedRegistry(t)

	levels := r.Levels()
	if len(levels) != 2 || levels[0] != "level1" || levels[1] != "level2" {
		t.Errorf("Levels() = %v; want sorted [level1 level2]", levels)
	}
}

func TestDiagnostics(t *testing.T) {
	r := loadedRegistry(t)
	d := NewDiagnostics(r)

	keys, err := d.SubtypeKeys("level1")
	if err != nil {
		t.Fatalf("SubtypeKeys() error = %v", err)
	}
	if len(keys) != 2 || keys[0] != "multiple_choice" {
		t.Errorf("SubtypeKeys() = %v", keys)
	}

	count, err := d.ExerciseCount("level1")
	if err != nil {
		t.Fatalf("ExerciseCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("ExerciseCount() = %d; want 2", count)
	}
}

func TestDiagnostics_MissingMedia(t *testing.T) {
	r := NewRegistry(nil, NewValidator(nil))
	r.SetCatalog(Catalog{
		"level1": {
			Subtypes: map[string][]*domain.Exercise{
				"audio_question": {
					{ID: "aq-1", Question: "¿?", Options: []string{"a"}, Correct: domain.StringValue("a"), Audio: "audio/aq-1.mp3"},
					{ID: "aq-2", Question: "¿?", Options: []string{"a"}, Correct: domain.StringValue("a")},
				},
				"describe_image": {
					{ID: "di-1", Instruction: "describe", Options: []string{"a"}, Correct: domain.StringValue("a")},
				},
			},
		},
	})
	d := NewDiagnostics(r)

	audio, err := d.MissingAudio("level1")
	if err != nil {
		t.Fatalf("MissingAudio() error = %v", err)
	}
	if len(audio) != 1 || audio[0] != "aq-2" {
		t.Errorf("MissingAudio() = %v; want [aq-2]", audio)
	}

	images, err := d.MissingImage("level1")
	if err != nil {
		t.Fatalf("MissingImage() error = %v", err)
	}
	if len(images) != 1 || images[0] != "di-1" {
		t.Errorf("MissingImage() = %v; want [di-1]", images)
	}
}
