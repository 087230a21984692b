package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

func TestToneMap(t *testing.T) {
	tests := []struct {
		name     string
		sum      core.Color
		samples  int
		expected RGB
	}{
		{"black", core.NewVec3(0, 0, 0), 1, RGB{0, 0, 0}},
		{"white clamps below 256", core.NewVec3(1, 1, 1), 1, RGB{255, 255, 255}},
		{"over-exposed clamps", core.NewVec3(7, 7, 7), 1, RGB{255, 255, 255}},
		{"gamma 2", core.NewVec3(0.25, 0.25, 0.25), 1, RGB{128, 128, 128}},
		{"averages samples", core.NewVec3(1, 2, 4), 4, RGB{128, 181, 255}},
		{"negative is black", core.NewVec3(-1, 0, 0.25), 1, RGB{0, 0, 128}},
		{"nan is black", core.NewVec3(math.NaN(), 0.25, 0), 1, RGB{0, 128, 0}},
		{"inf saturates", core.NewVec3(math.Inf(1), 0, 0), 1, RGB{255, 0, 0}},
		{"zero samples leaves sum", core.NewVec3(0.25, 0, 0), 0, RGB{128, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToneMap(tt.sum, tt.samples); got != tt.expected {
				t.Errorf("ToneMap(%v, %d) = %v, want %v", tt.sum, tt.samples, got, tt.expected)
			}
		})
	}
}

func TestImage_ScanlinesAreFlipped(t *testing.T) {
	img := NewImage(2, 3)

	// Scanline 0 is the bottom of the viewport and lands in the last output row
	img.SetScanline(0, []RGB{{1, 0, 0}, {2, 0, 0}})
	img.SetScanline(2, []RGB{{3, 0, 0}, {4, 0, 0}})

	if img.OutputRow(0) != 2 || img.OutputRow(2) != 0 {
		t.Errorf("Unexpected row mapping: 0->%d, 2->%d", img.OutputRow(0), img.OutputRow(2))
	}
	if img.At(0, 2).R != 1 || img.At(1, 2).R != 2 {
		t.Errorf("Bottom scanline not in last row: %v", img.Row(2))
	}
	if img.At(0, 0).R != 3 || img.At(1, 0).R != 4 {
		t.Errorf("Top scanline not in first row: %v", img.Row(0))
	}
	if img.At(0, 1) != (RGB{}) {
		t.Errorf("Unset row should stay black, got %v", img.At(0, 1))
	}
}

func TestImage_ToRGBA(t *testing.T) {
	img := NewImage(2, 1)
	img.SetScanline(0, []RGB{{10, 20, 30}, {40, 50, 60}})

	rgba := img.ToRGBA()
	if rgba.Bounds().Dx() != 2 || rgba.Bounds().Dy() != 1 {
		t.Fatalf("Unexpected bounds %v", rgba.Bounds())
	}
	c := rgba.RGBAAt(1, 0)
	if c.R != 40 || c.G != 50 || c.B != 60 || c.A != 255 {
		t.Errorf("Unexpected pixel %v", c)
	}
}

func TestImage_AverageLuminance(t *testing.T) {
	img := NewImage(2, 1)
	if lum := img.AverageLuminance(); lum != 0 {
		t.Errorf("Black image should have zero luminance, got %f", lum)
	}

	img.SetScanline(0, []RGB{{255, 255, 255}, {255, 255, 255}})
	if lum := img.AverageLuminance(); math.Abs(lum-1.0) > 1e-9 {
		t.Errorf("White image should have luminance 1, got %f", lum)
	}

	img.SetScanline(0, []RGB{{255, 255, 255}, {0, 0, 0}})
	if lum := img.AverageLuminance(); math.Abs(lum-0.5) > 1e-9 {
		t.Errorf("Half white image should have luminance 0.5, got %f", lum)
	}
}
