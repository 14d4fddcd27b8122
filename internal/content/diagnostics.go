package content

import "github.com/vtinadev/leoplay/internal/domain"

// Diagnostics answers content inspection queries over a registry: counts,
// ordering, and media coverage per level.
type Diagnostics struct {
	registry *Registry
}

// NewDiagnostics creates a diagnostics view over the registry.
func NewDiagnostics(registry *Registry) *Diagnostics {
	return &Diagnostics{registry: registry}
}

// Levels returns the sorted level ids.
func (d *Diagnostics) Levels() []string {
	return d.registry.Levels()
}

// SubtypeKeys returns the stage order of a level.
func (d *Diagnostics) SubtypeKeys(level string) ([]string, error) {
	def, err := d.registry.Level(level)
	if err != nil {
		return nil, err
	}
	return def.SubtypeOrder(), nil
}

// ExerciseCount returns the total number of exercises in a level.
func (d *Diagnostics) ExerciseCount(level string) (int, error) {
	def, err := d.registry.Level(level)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, exercises := range def.Subtypes {
		n += len(exercises)
	}
	return n, nil
}

// MissingAudio lists exercises of audio-driven types that reference no audio
// asset.
func (d *Diagnostics) MissingAudio(level string) ([]string, error) {
	return d.missingMedia(level, audioTypes, func(ex *domain.Exercise) bool {
		return ex.Audio == ""
	})
}

// MissingImage lists exercises of image-driven types that reference no image
// asset.
func (d *Diagnostics) MissingImage(level string) ([]string, error) {
	return d.missingMedia(level, imageTypes, func(ex *domain.Exercise) bool {
		return ex.Image == ""
	})
}

var audioTypes = map[domain.ExerciseType]bool{
	domain.TypeAudioQuestion: true,
	domain.TypeReadWithAudio: true,
	domain.TypeAudioChoice:   true,
	domain.TypeAudioWrite:    true,
}

var imageTypes = map[domain.ExerciseType]bool{
	domain.TypeImageWordMatch: true,
	domain.TypeDescribeImage:  true,
}

func (d *Diagnostics) missingMedia(level string, types map[domain.ExerciseType]bool, missing func(*domain.Exercise) bool) ([]string, error) {
	def, err := d.registry.Level(level)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, subtypeKey := range def.SubtypeOrder() {
		for _, ex := range def.Subtypes[subtypeKey] {
			if ex == nil || !types[ex.Type] {
				continue
			}
			if missing(ex) {
				ids = append(ids, ex.ID)
			}
		}
	}
	return ids, nil
}
