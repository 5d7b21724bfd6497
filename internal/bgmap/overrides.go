package bgmap

import (
	"image"

	"gal-bgmap/internal/game"
	"gal-bgmap/internal/module"
)

// The tables in this file patch known quirks in the shipped room data.
// Each entry is keyed by room name (plus a discriminant where one room
// needs several) so every exception stays independently auditable.

// moduleAliases restores unique names for the two modules that share one.
var moduleAliases = map[int]string{
	13: "A15RA",
	14: "A15RB",
}

// roomName returns the room's stored name, disambiguated by module index
// where two modules share a name.
func roomName(room *module.Room, moduleIndex int) string {
	if alias, ok := moduleAliases[moduleIndex]; ok {
		return alias
	}
	return room.Name
}

// normalizeRoom collapses the double map entry for A1310: the room
// appears at indices 9 and 10 of the hospital 13F map, and the splitter
// only knows index 9.
func normalizeRoom(mapIndex, roomIndex int) (int, int) {
	if mapIndex == int(game.Hospital13F) && roomIndex == 10 {
		return mapIndex, 9
	}
	return mapIndex, roomIndex
}

// roomKey keys an override by room name plus one integer discriminant
// (entrance room index, origin room index or camera index, depending on
// the table).
type roomKey struct {
	Name  string
	Index int
}

// entranceRoomFixes rewrites entrance origin-room indices that don't
// match any real spawn location. A15RC's entrance 16 looks like the
// stairs behind the shutter, but neither the index nor the position fit;
// room 10 is where the player actually comes from.
var entranceRoomFixes = map[roomKey]int{
	{"A15RC", 16}: 10,
}

// originFix is a hand-resolved origin for an entrance the call-graph
// search cannot place. Room < 0 keeps the entrance's own room index.
type originFix struct {
	Map  game.Map
	Room int
}

// originMapFixes covers entrances whose origin rooms use call encodings
// the search doesn't recognize.
var originMapFixes = map[roomKey]originFix{
	{"B0112", 11}: {game.Hospital14F, 4},
	{"C0101", 10}: {game.YourHouse1F, -1},
	{"D0001", 5}:  {game.Hotel1F, -1},
}

// cameraFixes replaces a computed camera index, keyed by origin room.
// D0003 has overlapping cuts that pick the wrong view; A15RC's entrance
// data is bogus (see entranceRoomFixes).
var cameraFixes = map[roomKey]int{
	{"D0003", 1}:  6,
	{"A15RC", 10}: 7,
}

// litFrames selects an alternate source frame, keyed by camera index,
// for views whose lit state is stored as a second image rather than a
// brightness change.
var litFrames = map[roomKey]int{
	{"D0001", 5}: 1,
	{"D0002", 6}: 1,
	{"D0003", 5}: 1,
	{"D0004", 5}: 1,
}

// set0Lit lists rooms whose first background set is already the lit
// variant. Everywhere else, rooms with two sets store the lit images in
// set 1.
var set0Lit = map[string]bool{
	"C0102": true,
}

// manualEntrances supplies spawn points for rooms whose modules record
// none.
var manualEntrances = map[string][]module.Entrance{
	"D0001": {
		{RoomIndex: 5, X: 3018, Z: -2140},
		{RoomIndex: 8, X: 4920, Z: -8},
	},
	"D0002": {
		{RoomIndex: 0, X: 2748, Z: 16},
		{RoomIndex: 8, X: -332, Z: 2200},
	},
	"D0003": {
		{RoomIndex: 1, X: -706, Z: 1774},
		{RoomIndex: 8, X: -2530, Z: -555},
	},
	"D0004": {
		{RoomIndex: 2},
		{RoomIndex: 8, X: -46, Z: 2256},
	},
	"D0101": {
		{RoomIndex: 0, X: 8, Z: -2656},
		{RoomIndex: 1},
		{RoomIndex: 2},
		{RoomIndex: 3},
	},
}

// manualLink injects a transition automatic discovery can't produce.
type manualLink struct {
	Map    game.Map
	Room   int
	Camera int
	BgSet  int
}

// manualLinks are recorded when visiting the destination room, before
// entrance discovery.
var manualLinks = map[string][]manualLink{
	// lobby second floor from first floor
	"B0201": {{game.YourHouse1F, 0, 1, 0}},
	// lobby first floor from second floor
	"B0101": {{game.YourHouse2F, 0, 0, 0}},
	// falling through the hole
	"B01RB": {{game.YourHouse2F, 10, 0, 0}},
	// hotel lobby from the upper floors, light and dark variants
	"C0101": {
		{game.Hotel2F, 6, 3, 0},
		{game.Hotel2F, 6, 3, 1},
		{game.Hotel3F, 6, 3, 0},
		{game.Hotel3F, 6, 3, 1},
	},
	// hotel second floor hallway from the other floors
	"C0207": {
		{game.Hotel1F, 0, 0, 0},
		{game.Hotel3F, 6, 0, 0},
	},
	// hotel third floor hallway from the lower floors
	"C0307": {
		{game.Hotel1F, 0, 0, 0},
		{game.Hotel2F, 6, 0, 0},
	},
	// both variants of Lilia's room, so detection holds after the
	// preceding cutscene
	"D1001": {
		{game.MushroomTower, 8, 0, 0},
		{game.MushroomTower, 8, 3, 0},
		{game.MushroomTower, 6, 0, 0},
		{game.MushroomTower, 6, 3, 0},
	},
}

// anyIndex matches every value of an extra-link or composite rule field.
const anyIndex = -1

// extraLinkRule duplicates a discovered transition with another camera
// or background set when the entrance matches.
type extraLinkRule struct {
	Camera     int // resolved camera index to match, anyIndex for all
	OriginRoom int // origin room index to match, anyIndex for all
	AddCamera  int
	AddBgSet   int
}

var extraLinks = map[string][]extraLinkRule{
	// cutscene angle for the first entrance behind the shutter
	"B0110": {{Camera: 8, OriginRoom: anyIndex, AddCamera: 7}},
	// cutscene angle when entering from Lilia's room
	"D1001": {
		{Camera: anyIndex, OriginRoom: 3, AddCamera: 0},
		{Camera: anyIndex, OriginRoom: 6, AddCamera: 0},
	},
	// this angle needs both the light and dark backgrounds
	"C0101": {{Camera: 5, OriginRoom: anyIndex, AddCamera: 5}},
}

type compositeOp int

const (
	// opUnderlay alpha-composites a frame beneath the main image.
	opUnderlay compositeOp = iota
	// opOverlay pastes a frame over the image at a fixed offset.
	opOverlay
	// opBrighten scales the color channels uniformly.
	opBrighten
)

// compositeRule patches one room view whose displayed background is
// assembled from several stored pieces.
type compositeRule struct {
	Camera int // cut index the rule applies to, anyIndex for all
	Op     compositeOp
	Frame  int
	At     image.Point
	Scale  float64
}

var composites = map[string][]compositeRule{
	// animated sky texture underlaid behind the main background
	"B0112": {{Camera: 1, Op: opUnderlay, Frame: 2}},
	// the mirror is a separate texture
	"C0304": {{Camera: 0, Op: opOverlay, Frame: 6, At: image.Point{X: 207, Y: 89}}},
	// the platform is an overlay
	"D1004": {{Camera: anyIndex, Op: opOverlay, Frame: 1, At: image.Point{X: 6, Y: 164}}},
}

// matchingRules returns the composite rules that apply to one view, in
// declaration order.
func matchingRules(name string, cameraIndex int) []compositeRule {
	var out []compositeRule
	for _, r := range composites[name] {
		if r.Camera == anyIndex || r.Camera == cameraIndex {
			out = append(out, r)
		}
	}
	return out
}
