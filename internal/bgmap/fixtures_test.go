package bgmap

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"gal-bgmap/internal/game"
	"gal-bgmap/internal/module"
	"gal-bgmap/internal/project"
	"gal-bgmap/internal/tim"
)

// fakeViews serves in-memory TIMs and counts frame loads per (view, frame).
type fakeViews struct {
	frames map[int]map[int]*tim.Image
	loads  map[[2]int]int
}

func newFakeViews() *fakeViews {
	return &fakeViews{frames: make(map[int]map[int]*tim.Image), loads: make(map[[2]int]int)}
}

func (f *fakeViews) add(view, frame int, img *tim.Image) *fakeViews {
	if f.frames[view] == nil {
		f.frames[view] = make(map[int]*tim.Image)
	}
	f.frames[view][frame] = img
	return f
}

func (f *fakeViews) View(index int) (ViewSource, error) {
	if f.frames[index] == nil {
		return nil, fmt.Errorf("no view %d", index)
	}
	return &fakeView{views: f, index: index}, nil
}

type fakeView struct {
	views *fakeViews
	index int
}

func (v *fakeView) Frame(index int) (*tim.Image, error) {
	img := v.views.frames[v.index][index]
	if img == nil {
		return nil, fmt.Errorf("no frame %d in view %d", index, v.index)
	}
	v.views.loads[[2]int{v.index, index}]++
	return img, nil
}

// fakeSource is an in-memory Source. The same view set backs every stage.
type fakeSource struct {
	maps  []project.Map
	rooms map[int]*module.Room
	views *fakeViews
}

func (s *fakeSource) Maps() []project.Map {
	return s.maps
}

func (s *fakeSource) Room(moduleIndex int) (*module.Room, error) {
	room := s.rooms[moduleIndex]
	if room == nil {
		return nil, fmt.Errorf("no module %d", moduleIndex)
	}
	return room, nil
}

func (s *fakeSource) StageBackgrounds(game.Stage) (BackgroundSource, error) {
	return s.views, nil
}

// allMaps returns an empty map table covering every global map index.
func allMaps() []project.Map {
	return make([]project.Map, game.NumMaps)
}

// cutAround is a square cut of half-width r centered on (cx, cz), with
// corners in the stored scan order.
func cutAround(index, cx, cz, r int) module.Cut {
	return module.Cut{
		Index: index,
		X1:    cx - r, Z1: cz - r,
		X2: cx + r, Z2: cz - r,
		X3: cx - r, Z3: cz + r,
		X4: cx + r, Z4: cz + r,
	}
}

// fullCut covers the entire coordinate space.
func fullCut(index int) module.Cut {
	return cutAround(index, 0, 0, 30000)
}

// bgSet builds a background set whose camera i descriptor points at view
// base+i.
func bgSet(base, n int) module.BackgroundSet {
	var set module.BackgroundSet
	for i := 0; i < n; i++ {
		set.Backgrounds = append(set.Backgrounds, module.Background{Index: base + i})
	}
	return set
}

// pixelTIM builds a 16bpp TIM from raw BGR555 texels.
func pixelTIM(t *testing.T, w, h int, texels []uint16) *tim.Image {
	t.Helper()
	if len(texels) != w*h {
		t.Fatalf("pixelTIM: %d texels for %dx%d", len(texels), w, h)
	}
	b := []byte{0x10, 0, 0, 0, 0x02, 0, 0, 0}
	blockLen := 12 + w*h*2
	b = append(b, byte(blockLen), byte(blockLen>>8), byte(blockLen>>16), byte(blockLen>>24))
	b = append(b, 0, 0, 0, 0)
	b = append(b, byte(w), byte(w>>8), byte(h), byte(h>>8))
	for _, px := range texels {
		b = append(b, byte(px), byte(px>>8))
	}
	img, err := tim.Decode(b)
	if err != nil {
		t.Fatalf("decode fixture TIM: %v", err)
	}
	return img
}

// solidTIM builds a 16bpp TIM filled with one BGR555 texel.
func solidTIM(t *testing.T, w, h int, texel uint16) *tim.Image {
	t.Helper()
	texels := make([]uint16, w*h)
	for i := range texels {
		texels[i] = texel
	}
	return pixelTIM(t, w, h, texels)
}

const (
	red16   = 0x001F
	green16 = 0x03E0
	blue16  = 0x7C00
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestMapper(t *testing.T, src Source) *Mapper {
	t.Helper()
	return New(src, t.TempDir(), testLogger())
}
