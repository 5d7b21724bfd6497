// Package bgmap derives the room-transition → background-image table the
// console autosplitter matches captured frames against. It walks every
// room of every map, resolves where each entrance leads in from and
// which camera cut covers it, materializes the background image for that
// view, and serializes the resulting links as bg_map.json.
package bgmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"gal-bgmap/internal/game"
	"gal-bgmap/internal/geom"
	"gal-bgmap/internal/module"
)

// TransitionKey identifies one room-to-room transition as the splitter
// sees it in the game's save state.
type TransitionKey struct {
	OriginMap  int
	OriginRoom int
	DestMap    int
	DestRoom   int
}

// Stats counts what a run recorded and skipped.
type Stats struct {
	Links            int // recorded (transition, image) rows
	Images           int // images materialized
	NoEntrances      int // rooms skipped for lack of entrance data
	DebugEntrances   int // developer spawn points ignored
	SelfEntrances    int // transitions looping back to their own room
	CameraNotFound   int // entrances outside every camera cut
	OriginFallbacks  int // origins assumed to be on the current map
	MissingCallbacks int // trigger callbacks with no matching function
}

// Mapper accumulates transition links over one project. Runs are
// single-threaded; the two memo maps (decoded rooms live behind Source,
// materialized images here) are plain maps.
type Mapper struct {
	src    Source
	outDir string
	log    *log.Logger

	images map[ImageKey]string
	links  map[TransitionKey][]string
	order  []TransitionKey
	stats  Stats
}

// visit carries one room's state while its links are recorded.
type visit struct {
	room        *module.Room
	moduleIndex int
	name        string
	mapIndex    int
	roomIndex   int
	stageMaps   []game.Map
	views       BackgroundSource
}

// New creates a mapper writing images into outDir.
func New(src Source, outDir string, logger *log.Logger) *Mapper {
	return &Mapper{
		src:    src,
		outDir: outDir,
		log:    logger,
		images: make(map[ImageKey]string),
		links:  make(map[TransitionKey][]string),
	}
}

// Stats returns the run's counters.
func (m *Mapper) Stats() Stats {
	return m.stats
}

// MapRooms walks every stage, map, room and entrance in fixed order and
// records one link per resolvable entrance plus the hand-authored ones.
// The iteration order decides which room materializes a shared image
// first, and with it the output row order.
func (m *Mapper) MapRooms() error {
	maps := m.src.Maps()
	for _, stage := range game.Stages() {
		views, err := m.src.StageBackgrounds(stage)
		if err != nil {
			return err
		}
		stageMaps := game.StageMaps(stage)
		m.log.Info("mapping stage", "stage", stage)

		for _, mapIndex := range stageMaps {
			if int(mapIndex) >= len(maps) {
				return fmt.Errorf("bgmap: project has no map %d (%v)", int(mapIndex), mapIndex)
			}
			for _, mapRoom := range maps[mapIndex].Rooms {
				room, err := m.src.Room(mapRoom.ModuleIndex)
				if err != nil {
					return err
				}
				v := &visit{
					room:        room,
					moduleIndex: mapRoom.ModuleIndex,
					name:        roomName(room, mapRoom.ModuleIndex),
					mapIndex:    int(mapIndex),
					roomIndex:   mapRoom.RoomIndex,
					stageMaps:   stageMaps,
					views:       views,
				}
				if err := m.visitRoom(v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (m *Mapper) visitRoom(v *visit) error {
	// Hand-authored links first, independent of entrance discovery.
	for _, l := range manualLinks[v.name] {
		key := TransitionKey{OriginMap: int(l.Map), OriginRoom: l.Room, DestMap: v.mapIndex, DestRoom: v.roomIndex}
		if err := m.addLink(key, v, l.Camera, l.BgSet); err != nil {
			return err
		}
	}

	var entrances []module.Entrance
	if len(v.room.Entrances) == 0 {
		var ok bool
		entrances, ok = manualEntrances[v.name]
		if !ok {
			m.log.Warn("no entrances found; skipping room", "room", v.name)
			m.stats.NoEntrances++
			return nil
		}
	} else {
		entrances = v.room.Entrances[0].Entrances
	}

	for i, e := range entrances {
		if err := m.visitEntrance(v, i, e); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mapper) visitEntrance(v *visit, entranceIndex int, e module.Entrance) error {
	key, originRoom, err := m.resolveOrigin(v, entranceIndex, e)
	switch {
	case errors.Is(err, ErrDebugEntrance):
		m.log.Debug("ignoring debug entrance", "entrance", entranceIndex, "room", v.name)
		m.stats.DebugEntrances++
		return nil
	case errors.Is(err, ErrSelfEntrance):
		m.log.Warn("ignoring self-entrance", "entrance", entranceIndex, "room", v.name)
		m.stats.SelfEntrances++
		return nil
	case err != nil:
		return err
	}

	camera, err := resolveCamera(v.room, geom.Point{X: e.X, Z: e.Z})
	switch {
	case errors.Is(err, ErrCameraNotFound):
		m.log.Warn("could not find camera for entrance", "entrance", entranceIndex, "room", v.name)
		m.stats.CameraNotFound++
		return nil
	case err != nil:
		return err
	}

	// Rooms where the lights can go out carry two background sets; the
	// lit one is wanted, which is the second except where noted.
	bgSet := 0
	if len(v.room.Backgrounds) > 1 && !set0Lit[v.name] {
		bgSet = 1
	}

	if fixed, ok := cameraFixes[roomKey{v.name, originRoom}]; ok {
		camera = fixed
	}

	if err := m.addLink(key, v, camera, bgSet); err != nil {
		return err
	}

	for _, rule := range extraLinks[v.name] {
		cameraMatch := rule.Camera == anyIndex || rule.Camera == camera
		originMatch := rule.OriginRoom == anyIndex || rule.OriginRoom == originRoom
		if cameraMatch && originMatch {
			if err := m.addLink(key, v, rule.AddCamera, rule.AddBgSet); err != nil {
				return err
			}
		}
	}
	return nil
}

// addLink materializes the image for (room, camera, set) if needed and
// records it under key. Repeated (key, image) pairs collapse; a key can
// still carry several images (light/dark variants, cutscene angles).
func (m *Mapper) addLink(key TransitionKey, v *visit, cameraIndex, bgSetIndex int) error {
	name, err := m.imageFor(v, cameraIndex, bgSetIndex)
	if err != nil {
		return err
	}
	images, seen := m.links[key]
	if !seen {
		m.order = append(m.order, key)
	}
	for _, existing := range images {
		if existing == name {
			return nil
		}
	}
	m.links[key] = append(images, name)
	m.stats.Links++
	return nil
}

// SaveMap writes the accumulated links into outDir as a JSON array of
// [[originMap, originRoom, destMap, destRoom], imageName] rows, grouped
// by transition in discovery order. The order is fully determined by the
// input, so repeated runs produce identical bytes.
func (m *Mapper) SaveMap(filename string) error {
	rows := make([][2]any, 0, m.stats.Links)
	for _, key := range m.order {
		for _, img := range m.links[key] {
			rows = append(rows, [2]any{
				[4]int{key.OriginMap, key.OriginRoom, key.DestMap, key.DestRoom},
				img,
			})
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("bgmap: marshal links: %w", err)
	}
	path := filepath.Join(m.outDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("bgmap: write %s: %w", path, err)
	}
	return nil
}
