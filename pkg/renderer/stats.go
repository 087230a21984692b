package renderer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	RenderID     string        // Unique id correlating the log lines of one render
	TotalLines   int           // Scanlines rendered
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of camera rays traced
	Workers      int           // Workers in the pool
	Duration     time.Duration // Wall-clock time of the render
}

func newRenderStats(config SamplingConfig) RenderStats {
	pixels := config.Width * config.Height
	return RenderStats{
		RenderID:     uuid.NewString(),
		TotalLines:   config.Height,
		TotalPixels:  pixels,
		TotalSamples: pixels * config.SamplesPerPixel,
	}
}

// SamplesPerSecond returns camera-ray throughput, 0 before the render finished
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}
