// BYZRA ⸻ internal/export/orient.go
// exif orientation -> rotate/flip of the pixel grid

package export

import (
	"image"
	"image/draw"
)

type flipDirection int

const (
	flipVertical flipDirection = 1 << iota
	flipHorizontal
)

// applies an EXIF orientation (1-8); other values leave m alone
func orient(m image.Image, orientation int) image.Image {
	var angle int
	var dir flipDirection
	switch orientation {
	case 2:
		dir = flipHorizontal
	case 3:
		angle = 180
	case 4:
		angle, dir = 180, flipHorizontal
	case 5:
		angle, dir = -90, flipHorizontal
	case 6:
		angle = -90
	case 7:
		angle, dir = 90, flipHorizontal
	case 8:
		angle = 90
	default:
		return m
	}
	return flip(rotate(m, angle), dir)
}

// counter clockwise, in multiples of 90
func rotate(m image.Image, angle int) image.Image {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	var out *image.NRGBA
	switch angle {
	case 90:
		out = image.NewNRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < w; y++ {
			for x := 0; x < h; x++ {
				out.Set(x, y, m.At(b.Min.X+w-1-y, b.Min.Y+x))
			}
		}
	case -90:
		out = image.NewNRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < w; y++ {
			for x := 0; x < h; x++ {
				out.Set(x, y, m.At(b.Min.X+y, b.Min.Y+h-1-x))
			}
		}
	case 180, -180:
		out = image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Set(x, y, m.At(b.Min.X+w-1-x, b.Min.Y+h-1-y))
			}
		}
	default:
		return m
	}
	return out
}

func flip(m image.Image, dir flipDirection) image.Image {
	if dir == 0 {
		return m
	}
	// decoders return read-only YCbCr for JPEG; work on a copy
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)

	w, h := b.Dx(), b.Dy()
	if dir&flipHorizontal != 0 {
		for y := 0; y < h; y++ {
			for x := 0; x < w/2; x++ {
				l, r := dst.At(x, y), dst.At(w-1-x, y)
				dst.Set(x, y, r)
				dst.Set(w-1-x, y, l)
			}
		}
	}
	if dir&flipVertical != 0 {
		for y := 0; y < h/2; y++ {
			for x := 0; x < w; x++ {
				t, u := dst.At(x, y), dst.At(x, h-1-y)
				dst.Set(x, y, u)
				dst.Set(x, h-1-y, t)
			}
		}
	}
	return dst
}
