package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// RGB is an 8-bit gamma-corrected pixel
type RGB struct {
	R, G, B uint8
}

// Image is a row-major pixel buffer. Row 0 is the top of the picture, which
// is scanline Height-1 in viewport coordinates.
type Image struct {
	Width  int
	Height int
	Pix    []RGB
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
	}
}

// Row returns the pixels of output row y (0 = top)
func (img *Image) Row(y int) []RGB {
	return img.Pix[y*img.Width : (y+1)*img.Width]
}

// At returns the pixel at column x of output row y
func (img *Image) At(x, y int) RGB {
	return img.Pix[y*img.Width+x]
}

// SetScanline copies the pixels of viewport scanline j (0 = bottom) into place
func (img *Image) SetScanline(j int, pixels []RGB) {
	copy(img.Row(img.OutputRow(j)), pixels)
}

// OutputRow maps viewport scanline j (0 = bottom) to its output row (0 = top)
func (img *Image) OutputRow(j int) int {
	return img.Height - 1 - j
}

// ToRGBA converts the buffer to an opaque image.RGBA
func (img *Image) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			p := img.At(x, y)
			rgba.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return rgba
}

// ToneMap turns a sum of samples into an 8-bit pixel: average, gamma 2
// (square root), clamp to [0, 0.999] and scale by 256
func ToneMap(sum core.Color, samples int) RGB {
	scale := 1.0
	if samples > 0 {
		scale = 1.0 / float64(samples)
	}
	return RGB{
		R: toByte(sum.X * scale),
		G: toByte(sum.Y * scale),
		B: toByte(sum.Z * scale),
	}
}

func toByte(c float64) uint8 {
	// NaN from a degenerate path counts as black
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	return uint8(256 * min(math.Sqrt(c), 0.999))
}

// AverageLuminance returns the mean Rec. 709 luminance of the image in [0, 1]
func (img *Image) AverageLuminance() float64 {
	if len(img.Pix) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range img.Pix {
		total += 0.2126*float64(p.R)/255 + 0.7152*float64(p.G)/255 + 0.0722*float64(p.B)/255
	}
	return total / float64(len(img.Pix))
}
