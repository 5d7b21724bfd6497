// Command bgmap walks an extracted game project and produces the
// transition background map the autosplitter consumes: a directory of
// background images plus bg_map.json keying each inter-room transition
// to its image filenames.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"

	"gal-bgmap/internal/bgmap"
	"gal-bgmap/internal/project"
)

type options struct {
	Args struct {
		Project string `positional-arg-name:"PROJECT" required:"true" description:"Extracted game project directory"`
		Out     string `positional-arg-name:"OUT" required:"true" description:"Output directory for images and bg_map.json"`
	} `positional-args:"true"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})

	p, err := project.Open(opts.Args.Project)
	if err != nil {
		logger.Fatal("cannot open project", "err", err)
	}
	logger.Info("project opened", "version", p.Version(), "maps", len(p.Maps()))

	if err := os.MkdirAll(opts.Args.Out, 0o755); err != nil {
		logger.Fatal("cannot create output directory", "err", err)
	}

	m := bgmap.New(bgmap.NewSource(p), opts.Args.Out, logger)
	if err := m.MapRooms(); err != nil {
		logger.Fatal("mapping failed", "err", err)
	}
	if err := m.SaveMap("bg_map.json"); err != nil {
		logger.Fatal("cannot write bg_map.json", "err", err)
	}

	st := m.Stats()
	logger.Info("done",
		"links", st.Links,
		"images", st.Images,
		"noEntrances", st.NoEntrances,
		"debugEntrances", st.DebugEntrances,
		"selfEntrances", st.SelfEntrances,
		"cameraNotFound", st.CameraNotFound,
		"originFallbacks", st.OriginFallbacks,
		"missingCallbacks", st.MissingCallbacks,
	)
}
