package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mlactions/internal/common/fsutil"
)

// Model is a local GGUF file usable by the llama pipeline backend.
type Model struct {
	// ID is the full filename, e.g. "mistral-7b-instruct-v0.3.Q4_K_M.gguf".
	ID   string
	Path string
}

// LoadDir scans a directory for *.gguf files. Results are sorted by ID.
func LoadDir(dir string) ([]Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, Model{ID: name, Path: filepath.Join(abs, name)})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// Resolve finds the GGUF file for a hub model id such as
// "mistralai/Mistral-7B-Instruct-v0.3". A file matches when its name, case
// folded, starts with the repo part of the id. An exact filename wins.
func Resolve(models []Model, id string) (string, bool) {
	for _, m := range models {
		if m.ID == id {
			return m.Path, true
		}
	}
	repo := strings.ToLower(id)
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		repo = repo[i+1:]
	}
	if repo == "" {
		return "", false
	}
	for _, m := range models {
		if strings.HasPrefix(strings.ToLower(m.ID), repo) {
			return m.Path, true
		}
	}
	return "", false
}

// Merge returns explicit with every id in ids that it lacks resolved
// against models. Explicit entries are never overridden.
func Merge(explicit map[string]string, models []Model, ids ...string) map[string]string {
	out := make(map[string]string, len(explicit)+len(ids))
	for k, v := range explicit {
		out[k] = v
	}
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		if p, ok := Resolve(models, id); ok {
			out[id] = p
		}
	}
	return out
}
