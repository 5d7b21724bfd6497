package bgmap

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// paste alpha-composites src over dst with its top-left corner at.
// Regions outside dst are clipped.
func paste(dst *image.NRGBA, src image.Image, at image.Point) {
	r := image.Rectangle{Min: at, Max: at.Add(src.Bounds().Size())}
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}

// underlay composites under beneath main: both are pasted onto an opaque
// black canvas of main's size, under first.
func underlay(main, under *image.NRGBA) *image.NRGBA {
	canvas := image.NewNRGBA(main.Bounds())
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.NRGBA{A: 0xFF}), image.Point{}, draw.Src)
	paste(canvas, under, image.Point{})
	paste(canvas, main, image.Point{})
	return canvas
}

// brighten scales the color channels in place, clamping at white.
func brighten(img *image.NRGBA, scale float64) {
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(img.Pix[i+c]) * scale
			if v > 255 {
				v = 255
			}
			img.Pix[i+c] = uint8(v)
		}
	}
}
