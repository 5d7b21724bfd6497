// Package game holds fixed facts about the scenario layout: the four
// stages and the nine maps they span. Rooms everywhere else are addressed
// as (map, room index) pairs using these map values.
package game

import "fmt"

// Stage is one scenario chapter. Background images on disc are grouped
// by stage, and each stage owns a fixed run of maps.
type Stage string

const (
	StageA Stage = "A"
	StageB Stage = "B"
	StageC Stage = "C"
	StageD Stage = "D"
)

// Stages returns the stages in scenario order.
func Stages() []Stage {
	return []Stage{StageA, StageB, StageC, StageD}
}

// Map is a global map index, shared with the game's save state.
type Map int

const (
	Hospital15F Map = iota
	Hospital14F
	Hospital13F
	YourHouse1F
	YourHouse2F
	Hotel1F
	Hotel2F
	Hotel3F
	MushroomTower
)

// NumMaps counts the maps across all stages.
const NumMaps = 9

var mapNames = [NumMaps]string{
	"Hospital 15F",
	"Hospital 14F",
	"Hospital 13F",
	"Your House 1F",
	"Your House 2F",
	"Hotel 1F",
	"Hotel 2F",
	"Hotel 3F",
	"Mushroom Tower",
}

func (m Map) String() string {
	if m < 0 || int(m) >= len(mapNames) {
		return fmt.Sprintf("map %d", int(m))
	}
	return mapNames[m]
}

var stageMaps = map[Stage][]Map{
	StageA: {Hospital15F, Hospital14F, Hospital13F},
	StageB: {YourHouse1F, YourHouse2F},
	StageC: {Hotel1F, Hotel2F, Hotel3F},
	StageD: {MushroomTower},
}

// StageMaps returns the global map indices belonging to stage, in order.
func StageMaps(s Stage) []Map {
	return stageMaps[s]
}

// Stage returns the stage a map belongs to.
func (m Map) Stage() Stage {
	switch {
	case m >= Hospital15F && m <= Hospital13F:
		return StageA
	case m == YourHouse1F || m == YourHouse2F:
		return StageB
	case m >= Hotel1F && m <= Hotel3F:
		return StageC
	default:
		return StageD
	}
}
