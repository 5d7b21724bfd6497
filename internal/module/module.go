// Package module models decoded room modules: camera layout, entrances,
// background sets, triggers and script call tables.
package module

import "gal-bgmap/internal/geom"

// Room is one decoded room module. All fields are read-only once parsed.
type Room struct {
	Name        string
	Layout      Layout
	Backgrounds []BackgroundSet
	Entrances   []EntranceSet
	Triggers    []Trigger
	Functions   map[uint32]*Function
}

// Layout holds the ordered camera cut regions for a room. Later cuts take
// priority over earlier ones where regions overlap.
type Layout struct {
	Cuts []Cut
}

// Cut is one camera view: a convex quadrilateral of world XZ corners and
// the index of the background image it selects.
type Cut struct {
	Index int
	X1    int
	Z1    int
	X2    int
	Z2    int
	X3    int
	Z3    int
	X4    int
	Z4    int
}

// Quad returns the cut corners as a perimeter walk. Corners are stored in
// scan order (1-2 top, 3-4 bottom), so the perimeter runs 2, 4, 3, 1.
func (c Cut) Quad() [4]geom.Point {
	return [4]geom.Point{
		{X: c.X2, Z: c.Z2},
		{X: c.X4, Z: c.Z4},
		{X: c.X3, Z: c.Z3},
		{X: c.X1, Z: c.Z1},
	}
}

// BackgroundSet is one palette of background images for a room (e.g.
// lights on vs. lights off). Entries line up with camera cut indices.
type BackgroundSet struct {
	Backgrounds []Background
}

// Background points at the stage background view that holds this
// camera angle's image frames.
type Background struct {
	Index int
}

// EntranceSet is one recorded list of spawn points for a room.
type EntranceSet struct {
	Entrances []Entrance
}

// Entrance is a spawn point tagged with the room index it was entered
// from. The origin map is not recorded. A negative RoomIndex marks a
// developer debug spawn.
type Entrance struct {
	RoomIndex int
	X         int
	Y         int
	Z         int
	Facing    int
}

// Trigger binds a room event to a script callback address.
type Trigger struct {
	Enabled  bool
	Kind     int
	Callback uint32
}

// Function is one decoded script function: the calls it makes, in order.
type Function struct {
	Address uint32
	Calls   []Call
}

// Call is one scripted call with its positional arguments.
type Call struct {
	Name string
	Args []int32
}
