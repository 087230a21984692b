package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/integrator"
)

// ErrInvalidConfig is returned for sampling configurations that cannot be rendered
var ErrInvalidConfig = errors.New("invalid render config")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed; every scanline derives its own stream from it
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate checks that the configuration describes a renderable image
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("image size %dx%d must be positive: %w", c.Width, c.Height, ErrInvalidConfig)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("samples per pixel %d must be positive: %w", c.SamplesPerPixel, ErrInvalidConfig)
	case c.MaxDepth < 0:
		return fmt.Errorf("max depth %d must not be negative: %w", c.MaxDepth, ErrInvalidConfig)
	case c.NumWorkers < 0:
		return fmt.Errorf("worker count %d must not be negative: %w", c.NumWorkers, ErrInvalidConfig)
	}
	return nil
}

// LineSeed derives the seed of scanline row from the base seed. Each row
// gets its own stream so its pixels do not depend on which worker ran it
// or in what order.
func LineSeed(seed int64, row int) int64 {
	// splitmix64 finalizer spreads neighbouring rows apart
	z := uint64(seed) + uint64(row+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// LineProgress is reported after each scanline is placed in the image
type LineProgress struct {
	Row       int   // Viewport scanline that completed (0 = bottom)
	Completed int   // Lines completed so far, including this one
	Total     int   // Total lines in the image
	Pixels    []RGB // The finished scanline, left to right
}

// RenderOptions configures optional render behavior
type RenderOptions struct {
	Logger     core.Logger           // Receives start/finish lines (nil = silent)
	Integrator integrator.Integrator // Light transport (nil = path tracing under the sky gradient)
	OnLine     func(LineProgress)    // Called from the collecting goroutine, in completion order
}

// Raytracer renders a scene one scanline per task on a worker pool
type Raytracer struct {
	world      geometry.Hittable
	camera     *Camera
	config     SamplingConfig
	integrator integrator.Integrator
	logger     core.Logger
	onLine     func(LineProgress)
	completed  atomic.Int64
}

// NewRaytracer creates a new raytracer. The world and camera are shared
// read-only by all workers and must not be modified while rendering.
func NewRaytracer(world geometry.Hittable, camera *Camera, config SamplingConfig, options RenderOptions) *Raytracer {
	integratorInst := options.Integrator
	if integratorInst == nil {
		integratorInst = integrator.NewPathTracingIntegrator()
	}
	return &Raytracer{
		world:      world,
		camera:     camera,
		config:     config,
		integrator: integratorInst,
		logger:     options.Logger,
		onLine:     options.OnLine,
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// Progress returns how many scanlines have been placed so far. It is safe to
// call from any goroutine while a render is running.
func (rt *Raytracer) Progress() (completed, total int) {
	return int(rt.completed.Load()), rt.config.Height
}

// Render is a convenience wrapper around NewRaytracer(...).Render(ctx)
func Render(ctx context.Context, world geometry.Hittable, camera *Camera, config SamplingConfig, options RenderOptions) (*Image, RenderStats, error) {
	return NewRaytracer(world, camera, config, options).Render(ctx)
}

// Render traces every scanline on the worker pool and reassembles the rows
// top-to-bottom. Any failed line fails the whole render.
func (rt *Raytracer) Render(ctx context.Context) (*Image, RenderStats, error) {
	if err := rt.validate(); err != nil {
		return nil, RenderStats{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stats := newRenderStats(rt.config)
	rt.completed.Store(0)
	rt.logf("Render %s: %dx%d, %d samples/pixel, depth %d...\n",
		stats.RenderID, rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel, rt.config.MaxDepth)

	startTime := time.Now()
	pool := NewWorkerPool(ctx, rt.config.NumWorkers, rt.config.Height, rt.traceLine)
	stats.Workers = pool.GetNumWorkers()
	pool.Start()

	for j := 0; j < rt.config.Height; j++ {
		pool.SubmitTask(LineTask{Row: j, Seed: LineSeed(rt.config.Seed, j)})
	}

	img := NewImage(rt.config.Width, rt.config.Height)
	var renderErr error
	for i := 0; i < rt.config.Height; i++ {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			renderErr = result.Error
			break
		}

		img.SetScanline(result.Row, result.Pixels)
		completed := int(rt.completed.Add(1))
		if rt.onLine != nil {
			rt.onLine(LineProgress{Row: result.Row, Completed: completed, Total: rt.config.Height, Pixels: result.Pixels})
		}
	}

	// Skip whatever is still queued before waiting for the workers
	cancel()
	pool.Stop()

	if renderErr != nil {
		rt.logf("Render %s failed: %v\n", stats.RenderID, renderErr)
		return nil, RenderStats{}, renderErr
	}

	stats.Duration = time.Since(startTime)
	rt.logf("Render %s completed in %v using %d workers\n", stats.RenderID, stats.Duration, stats.Workers)
	return img, stats, nil
}

// RenderLine computes viewport scanline j (0 = bottom) on the calling
// goroutine with the same seed a worker would use
func (rt *Raytracer) RenderLine(j int) []RGB {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(LineSeed(rt.config.Seed, j))))
	return rt.traceLine(j, sampler)
}

// traceLine accumulates SamplesPerPixel jittered samples for every pixel in
// scanline j and tone maps the sums
func (rt *Raytracer) traceLine(j int, sampler core.Sampler) []RGB {
	width, height := rt.config.Width, rt.config.Height
	// A single column or row has nothing to interpolate across
	uDenom := float64(max(1, width-1))
	vDenom := float64(max(1, height-1))

	pixels := make([]RGB, width)
	for i := 0; i < width; i++ {
		var colorAccum core.Color
		for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
			u := (float64(i) + sampler.Get1D()) / uDenom
			v := (float64(j) + sampler.Get1D()) / vDenom

			ray := rt.camera.GetRay(u, v, sampler)
			colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, rt.world, rt.config.MaxDepth, sampler))
		}
		pixels[i] = ToneMap(colorAccum, rt.config.SamplesPerPixel)
	}
	return pixels
}

func (rt *Raytracer) validate() error {
	if rt.world == nil {
		return fmt.Errorf("render needs a world: %w", ErrInvalidConfig)
	}
	if rt.camera == nil {
		return fmt.Errorf("render needs a camera: %w", ErrInvalidConfig)
	}
	if err := rt.config.Validate(); err != nil {
		return err
	}
	if validator, ok := rt.world.(geometry.Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("invalid scene: %w", err)
		}
	}
	return nil
}

func (rt *Raytracer) logf(format string, args ...interface{}) {
	if rt.logger != nil {
		rt.logger.Printf(format, args...)
	}
}
