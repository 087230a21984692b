package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/imageio"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// renderFlags holds the command line overrides; zero values keep the scene's settings
type renderFlags struct {
	sceneName string
	width     int
	spp       int
	depth     int
	workers   int
	seed      int64
	out       string
}

func main() {
	// Parse command line flags
	var opts renderFlags
	flag.StringVar(&opts.sceneName, "scene", "random", "Scene: "+strings.Join(scene.Names(), ", ")+" or a .json scene file")
	flag.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default); height follows the aspect ratio")
	flag.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	flag.IntVar(&opts.workers, "workers", 0, "Number of render workers (0 = CPU count)")
	flag.Int64Var(&opts.seed, "seed", 42, "Seed for scene layout and sampling")
	flag.StringVar(&opts.out, "out", "image.ppm", "Output file; the extension (.ppm or .png) selects the format")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Scanline Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default       - Ground with diffuse, hollow glass and metal spheres")
		fmt.Println("  random        - Random sphere field with motion blur and depth of field")
		fmt.Println("  glass-spheres - Random sphere field where every small sphere is glass")
		fmt.Println("  <file>.json   - Scene description file")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, opts renderFlags) error {
	fmt.Println("Starting Scanline Raytracer...")

	selectedScene, err := createScene(opts)
	if err != nil {
		return err
	}
	fmt.Printf("Using %s scene (%d objects)...\n", selectedScene.Name, selectedScene.GetPrimitiveCount())

	camera, err := selectedScene.NewCamera()
	if err != nil {
		return fmt.Errorf("failed to create camera: %w", err)
	}

	raytracer := renderer.NewRaytracer(selectedScene.World, camera, selectedScene.SamplingConfig, renderer.RenderOptions{
		Logger: renderer.NewDefaultLogger(),
	})

	done := make(chan struct{})
	go reportProgress(raytracer, done)
	img, stats, err := raytracer.Render(ctx)
	close(done)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Printf("Traced %d samples (%.0f samples/s), average luminance %.3f\n",
		stats.TotalSamples, stats.SamplesPerSecond(), img.AverageLuminance())

	if err := imageio.Save(opts.out, img); err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", opts.out)
	return nil
}

// createScene builds the named scene and applies the command line overrides
func createScene(opts renderFlags) (*scene.Scene, error) {
	s, err := scene.Create(opts.sceneName, opts.seed)
	if err != nil {
		return nil, err
	}

	if opts.width > 0 {
		s.SetWidth(opts.width)
	}
	if opts.spp > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.spp
	}
	if opts.depth > 0 {
		s.SamplingConfig.MaxDepth = opts.depth
	}
	if opts.workers > 0 {
		s.SamplingConfig.NumWorkers = opts.workers
	}
	s.SamplingConfig.Seed = opts.seed
	return s, nil
}

// reportProgress prints the remaining scanline count until done is closed
func reportProgress(rt *renderer.Raytracer, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			completed, total := rt.Progress()
			fmt.Fprintf(os.Stderr, "\rScanlines remaining: %d ", total-completed)
		}
	}
}
