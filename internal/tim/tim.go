// Package tim decodes PlayStation TIM images into image.NRGBA.
package tim

import (
	"encoding/binary"
	"fmt"
	"image"
)

// Transparency selects how texel transparency flags are applied when
// converting to RGBA.
type Transparency int

const (
	// TransparencyFull applies the standard PSX rules: an all-zero texel
	// is fully transparent and a texel with the STP bit set is
	// semi-transparent. Used for overlay frames that get composited.
	TransparencyFull Transparency = iota
	// TransparencyNone ignores the flags and emits a fully opaque image.
	// Used for base background frames.
	TransparencyNone
)

const magic = 0x00000010

// Pixel mode values from the TIM flags word.
const (
	mode4Bit  = 0
	mode8Bit  = 1
	mode16Bit = 2
	mode24Bit = 3

	clutFlag = 0x08
)

// Image is a decoded TIM: pixel mode, optional CLUT, and the raw pixel
// block. Conversion to RGBA is deferred so callers can pick the
// transparency treatment per use.
type Image struct {
	BPP    int      // bits per pixel: 4, 8, 16 or 24
	Width  int      // width in pixels
	Height int      // height in pixels
	clut   []uint16 // palette entries for 4/8-bit modes
	pixels []byte   // raw pixel block payload
}

// Decode parses a TIM file image.
func Decode(data []byte) (*Image, error) {
	r := &reader{data: data}

	if r.readU32() != magic {
		return nil, fmt.Errorf("tim: bad magic")
	}
	flags := r.readU32()

	var bpp int
	switch flags & 0x07 {
	case mode4Bit:
		bpp = 4
	case mode8Bit:
		bpp = 8
	case mode16Bit:
		bpp = 16
	case mode24Bit:
		bpp = 24
	default:
		return nil, fmt.Errorf("tim: unsupported pixel mode %d", flags&0x07)
	}

	img := &Image{BPP: bpp}

	if flags&clutFlag != 0 {
		payload, _, _, err := r.block()
		if err != nil {
			return nil, fmt.Errorf("tim: clut: %w", err)
		}
		img.clut = make([]uint16, len(payload)/2)
		for i := range img.clut {
			img.clut[i] = binary.LittleEndian.Uint16(payload[i*2:])
		}
	}

	payload, w, h, err := r.block()
	if err != nil {
		return nil, fmt.Errorf("tim: pixels: %w", err)
	}

	// The stored width counts 16-bit units; convert to pixels.
	switch bpp {
	case 4:
		img.Width = w * 4
	case 8:
		img.Width = w * 2
	case 16:
		img.Width = w
	case 24:
		img.Width = w * 2 / 3
	}
	img.Height = h
	img.pixels = payload

	if bpp <= 8 && len(img.clut) == 0 {
		return nil, fmt.Errorf("tim: %d-bit image without clut", bpp)
	}

	return img, nil
}

// NRGBA converts the decoded TIM to an NRGBA image using the given
// transparency treatment.
func (t *Image) NRGBA(mode Transparency) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))

	if t.BPP == 24 {
		stride := t.Width * 3
		for y := 0; y < t.Height; y++ {
			for x := 0; x < t.Width; x++ {
				off := y*stride + x*3
				if off+3 > len(t.pixels) {
					return out
				}
				i := out.PixOffset(x, y)
				out.Pix[i] = t.pixels[off]
				out.Pix[i+1] = t.pixels[off+1]
				out.Pix[i+2] = t.pixels[off+2]
				out.Pix[i+3] = 0xFF
			}
		}
		return out
	}

	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			texel, ok := t.texelAt(x, y)
			if !ok {
				return out
			}
			r, g, b, a := rgba5551(texel, mode)
			i := out.PixOffset(x, y)
			out.Pix[i] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
			out.Pix[i+3] = a
		}
	}
	return out
}

// texelAt returns the 16-bit texel for a pixel, resolving CLUT indices
// for the 4- and 8-bit modes.
func (t *Image) texelAt(x, y int) (uint16, bool) {
	switch t.BPP {
	case 16:
		off := (y*t.Width + x) * 2
		if off+2 > len(t.pixels) {
			return 0, false
		}
		return binary.LittleEndian.Uint16(t.pixels[off:]), true
	case 8:
		off := y*t.Width + x
		if off >= len(t.pixels) {
			return 0, false
		}
		return t.clutEntry(int(t.pixels[off]))
	case 4:
		off := y*(t.Width/2) + x/2
		if off >= len(t.pixels) {
			return 0, false
		}
		idx := int(t.pixels[off])
		if x%2 == 0 {
			idx &= 0x0F
		} else {
			idx >>= 4
		}
		return t.clutEntry(idx)
	}
	return 0, false
}

func (t *Image) clutEntry(idx int) (uint16, bool) {
	if idx >= len(t.clut) {
		return 0, false
	}
	return t.clut[idx], true
}

// rgba5551 expands a 15-bit ABGR1555 texel to 8-bit channels.
func rgba5551(texel uint16, mode Transparency) (r, g, b, a uint8) {
	r = scale5(uint8(texel & 0x1F))
	g = scale5(uint8((texel >> 5) & 0x1F))
	b = scale5(uint8((texel >> 10) & 0x1F))

	if mode == TransparencyNone {
		return r, g, b, 0xFF
	}

	stp := texel&0x8000 != 0
	switch {
	case texel == 0:
		a = 0
	case stp:
		a = 0x80
	default:
		a = 0xFF
	}
	return r, g, b, a
}

func scale5(v uint8) uint8 {
	return v<<3 | v>>2
}

// reader is a bounds-checked cursor over the raw file contents.
type reader struct {
	data []byte
	off  int
}

func (r *reader) readU16() uint16 {
	if r.off+2 > len(r.data) {
		r.off = len(r.data)
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readU32() uint32 {
	if r.off+4 > len(r.data) {
		r.off = len(r.data)
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

// block reads one TIM data block: byte length (header included), the
// framebuffer position (discarded), size in 16-bit units, and payload.
func (r *reader) block() (payload []byte, w, h int, err error) {
	blen := int(r.readU32())
	_ = r.readU16() // framebuffer x
	_ = r.readU16() // framebuffer y
	w = int(r.readU16())
	h = int(r.readU16())

	if blen < 12 {
		return nil, 0, 0, fmt.Errorf("block length %d too short", blen)
	}
	n := blen - 12
	if r.off+n > len(r.data) {
		return nil, 0, 0, fmt.Errorf("truncated block: need %d bytes, have %d", n, len(r.data)-r.off)
	}
	payload = r.data[r.off : r.off+n]
	r.off += n
	return payload, w, h, nil
}
