package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
}

// Builder constructs a scene from a seed. Scenes without random placement ignore it.
type Builder func(seed int64) *Scene

var builtins = map[string]Builder{
	"default":       func(int64) *Scene { return NewDefaultScene() },
	"random":        NewRandomScene,
	"glass-spheres": NewGlassSpheresScene,
}

// Names lists the built-in scenes in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create returns the built-in scene with the given name, or loads a JSON
// scene file when name ends in .json
func Create(name string, seed int64) (*Scene, error) {
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return LoadScene(name)
	}
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return build(seed), nil
}

// NewCamera builds the scene's camera
func (s *Scene) NewCamera() (*renderer.Camera, error) {
	return renderer.NewCamera(s.CameraConfig)
}

// SetWidth changes the image width and derives the height from the camera's
// aspect ratio
func (s *Scene) SetWidth(width int) {
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = imageHeight(width, s.CameraConfig.AspectRatio)
}

// GetPrimitiveCount returns the total number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

func imageHeight(width int, aspectRatio float64) int {
	if aspectRatio <= 0 {
		return width
	}
	return max(1, int(float64(width)/aspectRatio))
}
