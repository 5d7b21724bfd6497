// Package project reads a galsdk-style extracted project directory:
// project.json, maps.json, the room module manifest and the per-stage
// background manifests. Consumers get decoded structures only; none of
// the on-disk encodings leak past this package.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gal-bgmap/internal/game"
	"gal-bgmap/internal/module"
)

// Map is one entry of maps.json: the rooms of a single in-game map,
// in room-index order.
type Map struct {
	Rooms []MapRoom `json:"rooms"`
}

// MapRoom ties a room index within its map to the module that holds
// the room's data.
type MapRoom struct {
	RoomIndex   int `json:"room_index"`
	ModuleIndex int `json:"module_index"`
}

// Project is an opened project directory.
type Project struct {
	dir     string
	version string
	maps    []Map
	modules *Modules
}

type projectInfo struct {
	Version string `json:"version"`
}

// Open reads the project metadata, the map table and the module manifest.
func Open(dir string) (*Project, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "project.json"))
	if err != nil {
		return nil, fmt.Errorf("project: read project.json in %s: %w", dir, err)
	}
	var info projectInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("project: parse project.json in %s: %w", dir, err)
	}

	raw, err = os.ReadFile(filepath.Join(dir, "maps.json"))
	if err != nil {
		return nil, fmt.Errorf("project: read maps.json in %s: %w", dir, err)
	}
	var maps []Map
	if err := json.Unmarshal(raw, &maps); err != nil {
		return nil, fmt.Errorf("project: parse maps.json in %s: %w", dir, err)
	}

	moduleManifest, err := LoadManifest(filepath.Join(dir, "modules"))
	if err != nil {
		return nil, err
	}

	return &Project{
		dir:     dir,
		version: info.Version,
		maps:    maps,
		modules: NewModules(moduleManifest),
	}, nil
}

// Version returns the game version the project was extracted from.
func (p *Project) Version() string {
	return p.version
}

// Maps returns the map table in global map-index order.
func (p *Project) Maps() []Map {
	return p.maps
}

// Room returns the decoded room for a module index. Decoding happens at
// most once per index; later calls return the same *module.Room.
func (p *Project) Room(moduleIndex int) (*module.Room, error) {
	return p.modules.Room(moduleIndex)
}

// StageBackgrounds returns the background view manifest for a stage.
func (p *Project) StageBackgrounds(stage game.Stage) (*Manifest, error) {
	return LoadManifest(filepath.Join(p.dir, "backgrounds", string(stage)))
}
