package bgmap

import (
	"fmt"

	"gal-bgmap/internal/module"
)

// goToRoom is the scripted call that moves the player between rooms.
// Its second and third arguments are the destination map and room.
const goToRoom = "GoToRoom"

// linksTo reports whether any trigger callback in room issues a GoToRoom
// call targeting (destMap, destRoom). Trigger callbacks with no matching
// function are reported through missing and skipped.
func linksTo(room *module.Room, destMap, destRoom int, missing func(callback uint32)) bool {
	for _, trigger := range room.Triggers {
		fn, ok := room.Functions[trigger.Callback]
		if !ok {
			if missing != nil {
				missing(trigger.Callback)
			}
			continue
		}
		for _, call := range fn.Calls {
			if call.Name != goToRoom || len(call.Args) < 3 {
				continue
			}
			if int(call.Args[1]) == destMap && int(call.Args[2]) == destRoom {
				return true
			}
		}
	}
	return false
}

// findOriginMap scans the stage's maps for a room at originRoom whose
// triggers jump to the destination. Entrances record only a room index;
// this search recovers the map half of the origin.
func (m *Mapper) findOriginMap(v *visit, originRoom int) (int, bool, error) {
	maps := m.src.Maps()
	for _, candidate := range v.stageMaps {
		if int(candidate) >= len(maps) {
			continue
		}
		rooms := maps[candidate].Rooms
		if originRoom >= len(rooms) {
			// this map has no room at that index
			continue
		}
		candidateRoom, err := m.src.Room(rooms[originRoom].ModuleIndex)
		if err != nil {
			return 0, false, err
		}
		candidateName := roomName(candidateRoom, rooms[originRoom].ModuleIndex)
		found := linksTo(candidateRoom, v.mapIndex, v.roomIndex, func(callback uint32) {
			m.log.Warn("trigger callback not found; skipping",
				"callback", fmt.Sprintf("%08X", callback), "room", candidateName)
			m.stats.MissingCallbacks++
		})
		if found {
			return int(candidate), true, nil
		}
	}
	return 0, false, nil
}

// resolveOrigin identifies the map and room an entrance leads in from
// and builds the transition key. The key has the A1310 double entry
// collapsed on both ends; the returned originRoom is the value before
// that normalization, which is what the camera fix table is keyed on.
// Returns ErrDebugEntrance for developer spawn points and
// ErrSelfEntrance when the key would loop back to the room itself.
func (m *Mapper) resolveOrigin(v *visit, entranceIndex int, e module.Entrance) (TransitionKey, int, error) {
	if e.RoomIndex < 0 {
		return TransitionKey{}, 0, ErrDebugEntrance
	}
	originRoom := e.RoomIndex
	if fixed, ok := entranceRoomFixes[roomKey{v.name, originRoom}]; ok {
		originRoom = fixed
	}

	originMap, found, err := m.findOriginMap(v, originRoom)
	if err != nil {
		return TransitionKey{}, 0, err
	}
	if !found {
		if fix, ok := originMapFixes[roomKey{v.name, originRoom}]; ok {
			originMap = int(fix.Map)
			if fix.Room >= 0 {
				originRoom = fix.Room
			}
		} else {
			m.log.Warn("could not find origin map; assuming current map",
				"entrance", entranceIndex, "room", v.name, "originRoom", originRoom)
			m.stats.OriginFallbacks++
			originMap = v.mapIndex
		}
	}

	key := TransitionKey{OriginMap: originMap, OriginRoom: originRoom, DestMap: v.mapIndex, DestRoom: v.roomIndex}
	key.OriginMap, key.OriginRoom = normalizeRoom(key.OriginMap, key.OriginRoom)
	key.DestMap, key.DestRoom = normalizeRoom(key.DestMap, key.DestRoom)
	if key.OriginMap == key.DestMap && key.OriginRoom == key.DestRoom {
		return TransitionKey{}, 0, ErrSelfEntrance
	}
	return key, originRoom, nil
}
