// Command bgdump writes every background frame of a project to disk for
// eyeballing frame indexes and compositing inputs.
package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/charmbracelet/log"
	"github.com/ftrvxmtrx/tga"
	"github.com/jessevdk/go-flags"
	"golang.org/x/image/draw"

	"gal-bgmap/internal/game"
	"gal-bgmap/internal/project"
	"gal-bgmap/internal/tim"
)

type options struct {
	Args struct {
		Project string `positional-arg-name:"PROJECT" required:"true" description:"Extracted game project directory"`
		Out     string `positional-arg-name:"OUT" required:"true" description:"Output directory for frame dumps"`
	} `positional-args:"true"`

	Stage  string `short:"s" long:"stage" description:"Dump a single stage (A, B, C or D)"`
	View   int    `short:"v" long:"view" default:"-1" description:"Dump a single view index (requires --stage)"`
	Format string `short:"f" long:"format" choice:"webp" choice:"tga" default:"webp" description:"Output image format"`
	Scale  int    `long:"scale" default:"1" description:"Integer upscale factor"`
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

	stages := game.Stages()
	if opts.Stage != "" {
		stage := game.Stage(opts.Stage)
		if game.StageMaps(stage) == nil {
			logger.Fatal("unknown stage", "stage", opts.Stage)
		}
		stages = []game.Stage{stage}
	} else if opts.View >= 0 {
		logger.Fatal("--view requires --stage")
	}

	p, err := project.Open(opts.Args.Project)
	if err != nil {
		logger.Fatal("cannot open project", "err", err)
	}
	if err := os.MkdirAll(opts.Args.Out, 0o755); err != nil {
		logger.Fatal("cannot create output directory", "err", err)
	}

	dumped, failed := 0, 0
	for _, stage := range stages {
		views, err := p.StageBackgrounds(stage)
		if err != nil {
			logger.Fatal("cannot open stage backgrounds", "stage", stage, "err", err)
		}
		logger.Info("dumping stage", "stage", stage, "views", views.Len())

		for _, viewIndex := range views.Indexes() {
			if opts.View >= 0 && viewIndex != opts.View {
				continue
			}
			frames, err := views.Sub(viewIndex)
			if err != nil {
				logger.Warn("cannot open view", "stage", stage, "view", viewIndex, "err", err)
				failed++
				continue
			}
			for _, frameIndex := range frames.Indexes() {
				name := fmt.Sprintf("%s_%d_%d.%s", stage, viewIndex, frameIndex, opts.Format)
				if err := dumpFrame(frames, frameIndex, filepath.Join(opts.Args.Out, name), opts); err != nil {
					logger.Warn("dump failed", "file", name, "err", err)
					failed++
					continue
				}
				dumped++
			}
		}
	}

	if failed > 0 {
		logger.Fatal("done with errors", "frames", dumped, "failed", failed)
	}
	logger.Info("done", "frames", dumped)
}

func dumpFrame(frames *project.Manifest, frameIndex int, path string, opts options) error {
	decoded, err := frames.LoadTIM(frameIndex)
	if err != nil {
		return err
	}
	img := decoded.NRGBA(tim.TransparencyNone)

	// Nearest-neighbor keeps texel edges crisp, which is the point of an
	// inspection dump.
	if opts.Scale > 1 {
		b := img.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*opts.Scale, b.Dy()*opts.Scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch opts.Format {
	case "tga":
		return tga.Encode(f, img)
	default:
		return nativewebp.Encode(f, img, nil)
	}
}
