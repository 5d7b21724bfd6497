package project

import "gal-bgmap/internal/module"

// Modules hands out decoded rooms by module index, memoized. The whole
// run is single-threaded, so a plain map suffices.
type Modules struct {
	manifest *Manifest
	rooms    map[int]*module.Room
}

// NewModules wraps a module manifest in a memoizing accessor.
func NewModules(manifest *Manifest) *Modules {
	return &Modules{manifest: manifest, rooms: make(map[int]*module.Room)}
}

// Room returns the decoded room for a module index, decoding it on
// first use.
func (m *Modules) Room(index int) (*module.Room, error) {
	if room, ok := m.rooms[index]; ok {
		return room, nil
	}
	path, err := m.manifest.File(index)
	if err != nil {
		return nil, err
	}
	room, err := module.Parse(path)
	if err != nil {
		return nil, err
	}
	m.rooms[index] = room
	return room, nil
}
