package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gal-bgmap/internal/tim"
)

// Manifest is an indexed file listing: a directory plus its manifest.json.
// Extracted assets are addressed by index, never by globbing the directory.
type Manifest struct {
	dir   string
	name  string
	files map[int]manifestFile
}

type manifestFile struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Path  string `json:"path"`
}

type manifestData struct {
	Name  string         `json:"name"`
	Files []manifestFile `json:"files"`
}

// LoadManifest reads dir/manifest.json.
func LoadManifest(dir string) (*Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("project: read manifest in %s: %w", dir, err)
	}
	var data manifestData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("project: parse manifest in %s: %w", dir, err)
	}

	m := &Manifest{dir: dir, name: data.Name, files: make(map[int]manifestFile, len(data.Files))}
	for _, f := range data.Files {
		m.files[f.Index] = f
	}
	return m, nil
}

// Name returns the manifest's own name.
func (m *Manifest) Name() string {
	return m.name
}

// Len returns the number of listed files.
func (m *Manifest) Len() int {
	return len(m.files)
}

// Indexes returns the listed indexes in ascending order.
func (m *Manifest) Indexes() []int {
	out := make([]int, 0, len(m.files))
	for i := range m.files {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// File returns the filesystem path of the entry at index.
func (m *Manifest) File(index int) (string, error) {
	f, ok := m.files[index]
	if !ok {
		return "", fmt.Errorf("project: no entry %d in manifest %s", index, m.dir)
	}
	return filepath.Join(m.dir, f.Path), nil
}

// EntryName returns the bare name of the entry at index.
func (m *Manifest) EntryName(index int) (string, error) {
	f, ok := m.files[index]
	if !ok {
		return "", fmt.Errorf("project: no entry %d in manifest %s", index, m.dir)
	}
	return f.Name, nil
}

// Sub loads the nested manifest rooted at the entry at index.
func (m *Manifest) Sub(index int) (*Manifest, error) {
	path, err := m.File(index)
	if err != nil {
		return nil, err
	}
	return LoadManifest(path)
}

// LoadTIM reads and decodes the TIM image at index.
func (m *Manifest) LoadTIM(index int) (*tim.Image, error) {
	path, err := m.File(index)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", path, err)
	}
	img, err := tim.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("project: %s: %w", path, err)
	}
	return img, nil
}
