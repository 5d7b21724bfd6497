package bgmap

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gal-bgmap/internal/module"
)

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return c.R, c.G, c.B
}

func TestImageForMemoized(t *testing.T) {
	t.Parallel()

	views := newFakeViews().add(0, 0, solidTIM(t, 4, 4, red16))
	m := newTestMapper(t, &fakeSource{views: views})
	v := &visit{
		room:        &module.Room{Name: "A0101", Backgrounds: []module.BackgroundSet{bgSet(0, 1)}},
		moduleIndex: 7,
		name:        "A0101",
		views:       views,
	}

	first, err := m.imageFor(v, 0, 0)
	if err != nil {
		t.Fatalf("imageFor: %v", err)
	}
	if first != "A0101_0_0.png" {
		t.Errorf("image name = %q", first)
	}
	second, err := m.imageFor(v, 0, 0)
	if err != nil {
		t.Fatalf("imageFor again: %v", err)
	}
	if second != first {
		t.Errorf("second handle %q differs from first %q", second, first)
	}
	if loads := views.loads[[2]int{0, 0}]; loads != 1 {
		t.Errorf("source frame loaded %d times, want 1", loads)
	}
	if m.Stats().Images != 1 {
		t.Errorf("images materialized = %d, want 1", m.Stats().Images)
	}
	if _, err := os.Stat(filepath.Join(m.outDir, first)); err != nil {
		t.Errorf("output image missing: %v", err)
	}
}

func TestLitFrameOverride(t *testing.T) {
	t.Parallel()

	// D0001 camera 5 stores its lit state as the second frame.
	views := newFakeViews().
		add(5, 0, solidTIM(t, 2, 2, red16)).
		add(5, 1, solidTIM(t, 2, 2, green16))
	m := newTestMapper(t, &fakeSource{views: views})
	v := &visit{
		room:  &module.Room{Name: "D0001", Backgrounds: []module.BackgroundSet{bgSet(0, 6)}},
		name:  "D0001",
		views: views,
	}

	if _, err := m.imageFor(v, 5, 0); err != nil {
		t.Fatalf("imageFor: %v", err)
	}
	if views.loads[[2]int{5, 1}] != 1 {
		t.Error("lit frame 1 not loaded")
	}
	if views.loads[[2]int{5, 0}] != 0 {
		t.Error("frame 0 loaded despite lit override")
	}
}

func TestUnderlayRule(t *testing.T) {
	t.Parallel()

	// B0112 camera 1: the main frame's blank texels let the sky frame
	// show through; the result is flattened opaque.
	main := pixelTIM(t, 2, 2, []uint16{red16, 0, 0, 0})
	sky := solidTIM(t, 2, 2, green16)
	views := newFakeViews().add(1, 0, main).add(1, 2, sky)
	m := newTestMapper(t, &fakeSource{views: views})
	v := &visit{
		room:  &module.Room{Name: "B0112", Backgrounds: []module.BackgroundSet{bgSet(0, 2)}},
		name:  "B0112",
		views: views,
	}

	name, err := m.imageFor(v, 1, 0)
	if err != nil {
		t.Fatalf("imageFor: %v", err)
	}
	img := readPNG(t, filepath.Join(m.outDir, name))
	if r, g, _ := rgbAt(img, 0, 0); r != 255 || g != 0 {
		t.Errorf("main pixel = (%d, %d, _), want red", r, g)
	}
	if r, g, _ := rgbAt(img, 1, 0); g != 255 || r != 0 {
		t.Errorf("transparent pixel = (%d, %d, _), want sky green", r, g)
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0xFFFF {
		t.Error("composited image is not opaque")
	}
}

func TestOverlayRule(t *testing.T) {
	t.Parallel()

	// D1004 pastes the platform frame at (6, 164) regardless of camera.
	base := solidTIM(t, 8, 166, red16)
	platform := solidTIM(t, 1, 1, green16)
	views := newFakeViews().add(0, 0, base).add(0, 1, platform)
	m := newTestMapper(t, &fakeSource{views: views})
	v := &visit{
		room:  &module.Room{Name: "D1004", Backgrounds: []module.BackgroundSet{bgSet(0, 1)}},
		name:  "D1004",
		views: views,
	}

	name, err := m.imageFor(v, 0, 0)
	if err != nil {
		t.Fatalf("imageFor: %v", err)
	}
	img := readPNG(t, filepath.Join(m.outDir, name))
	if _, g, _ := rgbAt(img, 6, 164); g != 255 {
		t.Error("platform overlay missing at (6, 164)")
	}
	if r, _, _ := rgbAt(img, 0, 0); r != 255 {
		t.Error("base pixel overwritten outside the overlay")
	}
}

func TestMirrorOverlay(t *testing.T) {
	t.Parallel()

	// C0304 camera 0 pastes the mirror at (207, 89).
	base := solidTIM(t, 210, 92, blue16)
	mirror := solidTIM(t, 2, 2, green16)
	views := newFakeViews().add(0, 0, base).add(0, 6, mirror)
	m := newTestMapper(t, &fakeSource{views: views})
	v := &visit{
		room:  &module.Room{Name: "C0304", Backgrounds: []module.BackgroundSet{bgSet(0, 1)}},
		name:  "C0304",
		views: views,
	}

	name, err := m.imageFor(v, 0, 0)
	if err != nil {
		t.Fatalf("imageFor: %v", err)
	}
	img := readPNG(t, filepath.Join(m.outDir, name))
	if _, g, _ := rgbAt(img, 207, 89); g != 255 {
		t.Error("mirror overlay missing at (207, 89)")
	}
	if _, _, b := rgbAt(img, 0, 0); b != 255 {
		t.Error("base pixel overwritten outside the mirror")
	}
}

func TestMaterializeErrors(t *testing.T) {
	t.Parallel()

	views := newFakeViews()
	m := newTestMapper(t, &fakeSource{views: views})
	v := &visit{
		room:  &module.Room{Name: "A0101", Backgrounds: []module.BackgroundSet{bgSet(0, 1)}},
		name:  "A0101",
		views: views,
	}

	if _, err := m.imageFor(v, 0, 3); err == nil {
		t.Error("expected error for missing background set")
	}
	if _, err := m.imageFor(v, 9, 0); err == nil {
		t.Error("expected error for camera with no view descriptor")
	}
	if _, err := m.imageFor(v, 0, 0); err == nil {
		t.Error("expected error for missing view")
	}
}

func TestBrighten(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []uint8{100, 200, 10, 255})
	brighten(img, 1.5)
	want := []uint8{150, 255, 15, 255}
	for i, w := range want {
		if img.Pix[i] != w {
			t.Errorf("channel %d = %d, want %d", i, img.Pix[i], w)
		}
	}
}

func TestMatchingRules(t *testing.T) {
	t.Parallel()

	if rules := matchingRules("B0112", 1); len(rules) != 1 || rules[0].Op != opUnderlay {
		t.Errorf("B0112 camera 1 rules = %+v", rules)
	}
	if rules := matchingRules("B0112", 0); len(rules) != 0 {
		t.Errorf("B0112 camera 0 rules = %+v, want none", rules)
	}
	if rules := matchingRules("D1004", 9); len(rules) != 1 || rules[0].Op != opOverlay {
		t.Errorf("D1004 any-camera rules = %+v", rules)
	}
	if rules := matchingRules("A0101", 0); rules != nil {
		t.Errorf("unlisted room rules = %+v, want none", rules)
	}
}
