package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vtinadev/leoplay/internal/config"
	"github.com/vtinadev/leoplay/internal/content"
	"github.com/vtinadev/leoplay/internal/stage"
)

// openRegistry loads the catalog from the given path, falling back to the
// configured content path.
func openRegistry(path string) (*content.Registry, error) {
	if path == "" {
		cfg, err := config.LoadLocalConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		path = cfg.Content.Path
	}

	loader := content.NewLoader(path)
	validator := content.NewValidator(slog.Default())
	registry := content.NewRegistry(loader, validator)
	if err := registry.Load(); err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", path, err)
	}

	return registry, nil
}

// cmdValidate validates the catalog and prints a per-stage report
func cmdValidate(args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	registry, err := openRegistry(path)
	if err != nil {
		return err
	}

	report := registry.Report()
	for _, summary := range report.Summaries {
		marker := "✓"
		if len(summary.Errors) > 0 {
			marker = "✗"
		} else if len(summary.Warnings) > 0 {
			marker = "!"
		}
		fmt.Printf("  %s %s / etapa %d (%s): %d ejercicios\n",
			marker, summary.Level, summary.Stage, summary.Subtype, summary.Count)
		for _, w := range summary.Warnings {
			fmt.Printf("      ⚠ %s\n", w)
		}
		for _, e := range summary.Errors {
			fmt.Printf("      ✗ %s\n", e)
		}
	}

	fmt.Println()
	if !report.Valid {
		return fmt.Errorf("catalog has %d errors", report.ErrorCount())
	}
	if n := report.WarningCount(); n > 0 {
		fmt.Printf("Catalog valid with %d warnings\n", n)
	} else {
		fmt.Println("Catalog valid")
	}
	return nil
}

// cmdLevels lists all levels in the catalog
func cmdLevels(args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	registry, err := openRegistry(path)
	if err != nil {
		return err
	}

	diagnostics := content.NewDiagnostics(registry)

	fmt.Println("Levels:")
	for _, id := range registry.Levels() {
		def, err := registry.Level(id)
		if err != nil {
			continue
		}
		count, _ := diagnostics.ExerciseCount(id)
		name := def.Meta.LevelName
		if name == "" {
			name = id
		}
		fmt.Printf("  %s (%s)\n", name, id)
		fmt.Printf("    Etapas: %d | Ejercicios: %d\n", len(def.SubtypeOrder()), count)
	}

	fmt.Println("\nUse 'leoplay level <id>' for details")
	return nil
}

// cmdLevel shows one level's metadata and stage order
func cmdLevel(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("level ID required (e.g., leoplay level animales)")
	}

	registry, err := openRegistry("")
	if err != nil {
		return err
	}

	def, err := registry.Level(args[0])
	if err != nil {
		return fmt.Errorf("level not found: %s", args[0])
	}

	name := def.Meta.LevelName
	if name == "" {
		name = args[0]
	}
	fmt.Printf("Level: %s\n\n", name)
	if def.Meta.Description != "" {
		fmt.Printf("Description: %s\n", def.Meta.Description)
	}
	if def.Meta.Animal != "" {
		fmt.Printf("Animal:      %s %s\n", def.Meta.Animal, def.Meta.Icon)
	}

	fmt.Println("\nStages:")
	for i, subtype := range def.SubtypeOrder() {
		title := stage.Humanize(subtype)
		if meta, ok := def.StageMeta[subtype]; ok && meta.Title != "" {
			title = meta.Title
		}
		fmt.Printf("  %d. %s (%s): %d ejercicios\n", i+1, title, subtype, len(def.Subtypes[subtype]))
	}

	return nil
}

// cmdStage resolves and prints one stage
func cmdStage(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("level ID and stage number required (e.g., leoplay stage animales 2)")
	}

	var n int
	if _, err := fmt.Sscanf(args[1], "%d", &n); err != nil {
		return fmt.Errorf("invalid stage number: %s", args[1])
	}

	registry, err := openRegistry("")
	if err != nil {
		return err
	}

	resolver := stage.NewResolver(registry, slog.Default())
	resolved, err := resolver.Resolve(args[0], n)
	if err != nil {
		return fmt.Errorf("resolve stage: %w", err)
	}

	fmt.Printf("%s (%s)\n", resolved.Meta.Title, resolved.Meta.StageLabel)
	if resolved.Meta.Description != "" {
		fmt.Printf("%s\n", resolved.Meta.Description)
	}

	fmt.Println("\nExercises:")
	for i, ex := range resolved.Exercises {
		prompt := ex.Prompt
		if prompt == "" {
			prompt = ex.Question
		}
		fmt.Printf("  %d. [%s] %s\n", i+1, ex.Type, prompt)
	}

	return nil
}

// cmdMedia lists exercises missing audio or image assets
func cmdMedia(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("level ID required (e.g., leoplay media animales)")
	}

	registry, err := openRegistry("")
	if err != nil {
		return err
	}

	diagnostics := content.NewDiagnostics(registry)

	missingAudio, err := diagnostics.MissingAudio(args[0])
	if err != nil {
		return fmt.Errorf("level not found: %s", args[0])
	}
	missingImage, _ := diagnostics.MissingImage(args[0])

	if len(missingAudio) == 0 && len(missingImage) == 0 {
		fmt.Println("All media assets present")
		return nil
	}

	if len(missingAudio) > 0 {
		fmt.Printf("Missing audio (%d): %s\n", len(missingAudio), strings.Join(missingAudio, ", "))
	}
	if len(missingImage) > 0 {
		fmt.Printf("Missing images (%d): %s\n", len(missingImage), strings.Join(missingImage, ", "))
	}

	return nil
}
