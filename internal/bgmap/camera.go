package bgmap

import (
	"gal-bgmap/internal/geom"
	"gal-bgmap/internal/module"
)

// resolveCamera returns the camera index of the last cut whose quad
// contains p. When cuts overlap, the later one wins; that matches the
// game's observed behavior, though it isn't a documented engine rule.
// Returns ErrCameraNotFound when no cut contains the point.
func resolveCamera(room *module.Room, p geom.Point) (int, error) {
	cuts := room.Layout.Cuts
	for i := len(cuts) - 1; i >= 0; i-- {
		if geom.PointInConvexQuad(p, cuts[i].Quad()) {
			return cuts[i].Index, nil
		}
	}
	return 0, ErrCameraNotFound
}
