package bgmap

import (
	"gal-bgmap/internal/game"
	"gal-bgmap/internal/module"
	"gal-bgmap/internal/project"
	"gal-bgmap/internal/tim"
)

// Source is the mapper's view of an extracted project: the map table,
// decoded rooms by module index, and per-stage background images.
type Source interface {
	Maps() []project.Map
	Room(moduleIndex int) (*module.Room, error)
	StageBackgrounds(stage game.Stage) (BackgroundSource, error)
}

// BackgroundSource hands out the camera views of one stage.
type BackgroundSource interface {
	View(index int) (ViewSource, error)
}

// ViewSource hands out the stored frames of one camera view.
type ViewSource interface {
	Frame(index int) (*tim.Image, error)
}

// NewSource adapts an opened project directory to the Source interface.
func NewSource(p *project.Project) Source {
	return projectSource{p}
}

type projectSource struct {
	p *project.Project
}

func (s projectSource) Maps() []project.Map {
	return s.p.Maps()
}

func (s projectSource) Room(moduleIndex int) (*module.Room, error) {
	return s.p.Room(moduleIndex)
}

func (s projectSource) StageBackgrounds(stage game.Stage) (BackgroundSource, error) {
	m, err := s.p.StageBackgrounds(stage)
	if err != nil {
		return nil, err
	}
	return manifestViews{m}, nil
}

type manifestViews struct {
	m *project.Manifest
}

func (v manifestViews) View(index int) (ViewSource, error) {
	sub, err := v.m.Sub(index)
	if err != nil {
		return nil, err
	}
	return manifestFrames{sub}, nil
}

type manifestFrames struct {
	m *project.Manifest
}

func (f manifestFrames) Frame(index int) (*tim.Image, error) {
	return f.m.LoadTIM(index)
}
