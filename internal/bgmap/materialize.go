package bgmap

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"gal-bgmap/internal/tim"
)

// ImageKey identifies one materialized background image.
type ImageKey struct {
	ModuleIndex int
	CameraIndex int
	BgSetIndex  int
}

// imageFor returns the output filename for a (room, camera, set) key,
// materializing the image on first use. Later requests for the same key
// reuse the previous file.
func (m *Mapper) imageFor(v *visit, cameraIndex, bgSetIndex int) (string, error) {
	key := ImageKey{ModuleIndex: v.moduleIndex, CameraIndex: cameraIndex, BgSetIndex: bgSetIndex}
	if name, ok := m.images[key]; ok {
		return name, nil
	}
	name := fmt.Sprintf("%s_%d_%d.png", v.name, cameraIndex, bgSetIndex)
	if err := m.materialize(v, cameraIndex, bgSetIndex, name); err != nil {
		return "", err
	}
	m.images[key] = name
	m.stats.Images++
	return name, nil
}

// materialize decodes the view's source frame, applies the room's
// composite rules and writes the result as a PNG.
func (m *Mapper) materialize(v *visit, cameraIndex, bgSetIndex int, name string) error {
	if bgSetIndex >= len(v.room.Backgrounds) {
		return fmt.Errorf("bgmap: %s has no background set %d", v.name, bgSetIndex)
	}
	set := v.room.Backgrounds[bgSetIndex]
	if cameraIndex < 0 || cameraIndex >= len(set.Backgrounds) {
		return fmt.Errorf("bgmap: %s background set %d has no view for camera %d", v.name, bgSetIndex, cameraIndex)
	}
	view, err := v.views.View(set.Backgrounds[cameraIndex].Index)
	if err != nil {
		return err
	}

	frame := 0
	if lit, ok := litFrames[roomKey{v.name, cameraIndex}]; ok {
		frame = lit
	}

	// An underlaid frame shows through the main frame's transparent
	// texels, so only then is the base decoded with transparency.
	rules := matchingRules(v.name, cameraIndex)
	baseMode := tim.TransparencyNone
	for _, r := range rules {
		if r.Op == opUnderlay {
			baseMode = tim.TransparencyFull
		}
	}

	base, err := view.Frame(frame)
	if err != nil {
		return err
	}
	img := base.NRGBA(baseMode)

	for _, r := range rules {
		switch r.Op {
		case opUnderlay:
			under, err := view.Frame(r.Frame)
			if err != nil {
				return err
			}
			img = underlay(img, under.NRGBA(tim.TransparencyFull))
		case opOverlay:
			over, err := view.Frame(r.Frame)
			if err != nil {
				return err
			}
			paste(img, over.NRGBA(tim.TransparencyFull), r.At)
		case opBrighten:
			brighten(img, r.Scale)
		}
	}

	path := filepath.Join(m.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bgmap: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("bgmap: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("bgmap: write %s: %w", path, err)
	}
	return nil
}
