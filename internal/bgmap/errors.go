package bgmap

import "errors"

// Skip conditions raised while resolving a single entrance. All three
// are non-fatal: the caller logs them and moves to the next entrance.
// Everything else that goes wrong is a project/data error and terminates
// the run.
var (
	// ErrCameraNotFound means no camera cut contains the entrance position.
	ErrCameraNotFound = errors.New("bgmap: no camera view contains the entrance")

	// ErrDebugEntrance marks a developer spawn point (negative room index).
	ErrDebugEntrance = errors.New("bgmap: debug entrance")

	// ErrSelfEntrance marks a transition whose origin and destination
	// collapse to the same room.
	ErrSelfEntrance = errors.New("bgmap: entrance resolves to its own room")
)
