// Package pixel provides the 2-channel (luminance, alpha) image type used for
// source images and composited bins.
package pixel

import (
	"image"
	"image/color"
)

// LA is an in-memory image of 8-bit luminance+alpha pixels. Pix holds the
// channels interleaved: the pixel at (x, y) starts at
// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*2].
//
// Alpha is not premultiplied.
type LA struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewLA returns a zeroed (transparent black) w×h image.
func NewLA(w, h int) *LA {
	return &LA{
		Pix:    make([]uint8, 2*w*h),
		Stride: 2 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// Bounds implements image.Image.
func (p *LA) Bounds() image.Rectangle { return p.Rect }

// ColorModel implements image.Image.
func (p *LA) ColorModel() color.Model { return color.NRGBAModel }

// At implements image.Image. Luminance is replicated into R, G and B.
func (p *LA) At(x, y int) color.Color {
	l, a := p.LAAt(x, y)
	return color.NRGBA{R: l, G: l, B: l, A: a}
}

// LAAt returns the luminance and alpha at (x, y), or zero outside bounds.
func (p *LA) LAAt(x, y int) (l, a uint8) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0, 0
	}
	i := p.PixOffset(x, y)
	return p.Pix[i], p.Pix[i+1]
}

// SetLA sets the pixel at (x, y). Writes outside bounds are ignored.
func (p *LA) SetLA(x, y int, l, a uint8) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = l
	p.Pix[i+1] = a
}

// PixOffset returns the index of the first channel of (x, y) in Pix.
func (p *LA) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

// Width returns the image width.
func (p *LA) Width() int { return p.Rect.Dx() }

// Height returns the image height.
func (p *LA) Height() int { return p.Rect.Dy() }

// NRGBA expands p into an 8-bit NRGBA image with R=G=B=luminance.
// The result is what gets PNG-encoded.
func (p *LA) NRGBA() *image.NRGBA {
	w, h := p.Width(), p.Height()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := p.Pix[y*p.Stride : y*p.Stride+2*w]
		dst := out.Pix[y*out.Stride : y*out.Stride+4*w]
		for x := 0; x < w; x++ {
			l, a := src[2*x], src[2*x+1]
			dst[4*x+0] = l
			dst[4*x+1] = l
			dst[4*x+2] = l
			dst[4*x+3] = a
		}
	}
	return out
}

// FromImage converts img to luminance+alpha. Luminance is computed from the
// non-premultiplied color with color.GrayModel. The result's origin is (0, 0).
func FromImage(img image.Image) *LA {
	b := img.Bounds()
	out := NewLA(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *LA:
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:(y+1)*out.Stride], src.Pix[i:i+2*b.Dx()])
		}
		return out
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				out.SetLA(x, y, src.GrayAt(b.Min.X+x, b.Min.Y+y).Y, 0xff)
			}
		}
		return out
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g := color.GrayModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}).(color.Gray)
			out.SetLA(x, y, g.Y, c.A)
		}
	}
	return out
}
