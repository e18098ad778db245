// Package staticdata serializes the normalized collections and the
// file-metadata index into the JSON artifacts the deployed site reads.
package staticdata

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/foliopress/internal/content"
)

// Artifact file names under the output directory.
const (
	FileMetadataName = "file-metadata.json"
	ManifestName     = "manifest.json"
)

// Emitter writes build artifacts into OutputDir. Every run fully overwrites
// prior output; there is no incremental merge.
type Emitter struct {
	OutputDir string
}

// WriteCollection writes one collection's items as pretty-printed JSON.
func (e *Emitter) WriteCollection(kind content.Kind, items []content.Item) (string, error) {
	if items == nil {
		items = []content.Item{}
	}
	name := kind.Collection() + ".json"
	if err := e.writeJSON(name, items); err != nil {
		return "", err
	}
	slog.Info("Wrote collection artifact", "collection", kind.Collection(), "items", len(items))
	return filepath.Join(e.OutputDir, name), nil
}

// Manifest identifies one build run.
type Manifest struct {
	BuildID     string         `json:"buildId"`
	GeneratedAt string         `json:"generatedAt"`
	Counts      map[string]int `json:"counts"`
}

// WriteManifest stamps the output with a fresh build identity.
func (e *Emitter) WriteManifest(counts map[string]int) (Manifest, error) {
	m := Manifest{
		BuildID:     uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Counts:      counts,
	}
	if err := e.writeJSON(ManifestName, m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (e *Emitter) writeJSON(name string, v any) error {
	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", e.OutputDir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(e.OutputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
