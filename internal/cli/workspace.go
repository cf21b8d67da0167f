package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"newsdesk/internal/render"
	"newsdesk/internal/ui"
)

const (
	surfaceJSON = "surface.json"
	surfaceHTML = "surface.html"
)

var errNoSurface = errors.New("no surface yet: run generate first")

// workspace is the output directory holding the last surface between runs.
type workspace struct {
	dir string
}

func (w workspace) path(name string) string { return filepath.Join(w.dir, name) }

func (w workspace) load() (ui.Surface, error) {
	data, err := os.ReadFile(w.path(surfaceJSON))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ui.Surface{}, errNoSurface
		}
		return ui.Surface{}, fmt.Errorf("read surface: %w", err)
	}
	return ui.ParseSurface(data)
}

// save writes the surface and the rendered document next to it.
func (w workspace) save(s ui.Surface, doc *render.Document) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode surface: %w", err)
	}
	if err := os.WriteFile(w.path(surfaceJSON), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write surface: %w", err)
	}
	if doc == nil {
		return nil
	}
	page := "<!DOCTYPE html>\n<meta charset=\"UTF-8\">\n" + doc.HTML() + "\n"
	if err := os.WriteFile(w.path(surfaceHTML), []byte(page), 0o644); err != nil {
		return fmt.Errorf("write surface html: %w", err)
	}
	return nil
}
