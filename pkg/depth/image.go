package depth

import (
	"image"
	"image/color"
)

// Distance window for the RGB rendering. Depths are clamped into it before
// the hue ramp is applied.
const (
	minDistance = 0.2
	maxDistance = 0.6
)

// RGB maps the point into the RGB color space:
//
//  1. Red - close distance
//  2. Yellow - middle distance
//  3. Green - far distance
//  4. Black - low confidence or high noise
func (p Point) RGB() [3]uint8 {
	distance := p.Z
	if distance < minDistance {
		distance = minDistance
	}
	if distance > maxDistance {
		distance = maxDistance
	}
	normalized := (distance - minDistance) / (maxDistance - minDistance)

	noisePenalty := p.Noise / maxDistance
	if noisePenalty > 1 {
		noisePenalty = 1
	}
	value := p.Confidence
	if limit := 255 - uint8(noisePenalty*255); limit < value {
		value = limit
	}

	if normalized < 0.5 {
		g := uint8(normalized * 2 * 255)
		if g > value {
			g = value
		}
		return [3]uint8{value, g, 0}
	}
	r := uint8(255 - uint8((normalized-0.5)*2*255))
	if r > value {
		r = value
	}
	return [3]uint8{r, value, 0}
}

// Image renders the frame through the Point.RGB mapping.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(f.Width), int(f.Height)))
	for y := 0; y < int(f.Height); y++ {
		for x := 0; x < int(f.Width); x++ {
			rgb := f.At(x, y).RGB()
			img.SetNRGBA(x, y, color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}
	return img
}

// GrayImage renders the frame's IR grayscale channel.
func (f *Frame) GrayImage() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, int(f.Width), int(f.Height)))
	for y := 0; y < int(f.Height); y++ {
		for x := 0; x < int(f.Width); x++ {
			img.SetGray16(x, y, color.Gray16{Y: f.GrayAt(x, y)})
		}
	}
	return img
}
