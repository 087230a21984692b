// Package imageio writes rendered images to disk as plain-text PPM or PNG.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// ErrUnsupportedFormat is returned by Save for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported image format")

// WritePPM writes img as a P3 (ASCII) PPM: header "P3\n<w> <h>\n255\n"
// followed by one "r g b" line per pixel, top row first
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return fmt.Errorf("failed to write ppm header: %w", err)
	}
	for _, p := range img.Pix {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", p.R, p.G, p.B); err != nil {
			return fmt.Errorf("failed to write ppm pixel: %w", err)
		}
	}
	return bw.Flush()
}

// SavePPM writes img to path as a P3 PPM
func SavePPM(path string, img *renderer.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePPM(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SavePNG writes img to path as a PNG
func SavePNG(path string, img *renderer.Image) error {
	dc := gg.NewContextForRGBA(img.ToRGBA())
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes img to w as a PNG
func EncodePNG(w io.Writer, img *renderer.Image) error {
	return gg.NewContextForRGBA(img.ToRGBA()).EncodePNG(w)
}

// Save picks the encoder from the file extension (.ppm or .png) and creates
// missing parent directories
func Save(path string, img *renderer.Image) error {
	var encode func(string, *renderer.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ppm":
		encode = SavePPM
	case ".png":
		encode = SavePNG
	default:
		return fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return encode(path, img)
}
