package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// ErrInvalidScene is returned for scene files that parse but cannot be built
var ErrInvalidScene = errors.New("invalid scene file")

// FileConfig is the JSON layout of a scene file
type FileConfig struct {
	Name          string                    `json:"name"`
	Camera        CameraFileConfig          `json:"camera"`
	Sampling      SamplingFileConfig        `json:"sampling"`
	Materials     map[string]MaterialConfig `json:"materials"`
	Spheres       []SphereConfig            `json:"spheres"`
	MovingSpheres []MovingSphereConfig      `json:"movingSpheres,omitempty"`
}

type CameraFileConfig struct {
	LookFrom      Vec3Config  `json:"lookFrom"`
	LookAt        Vec3Config  `json:"lookAt"`
	Up            *Vec3Config `json:"up,omitempty"` // defaults to +Y
	VFov          float64     `json:"vfov"`
	AspectRatio   float64     `json:"aspectRatio,omitempty"` // defaults to 16:9
	Aperture      float64     `json:"aperture,omitempty"`
	FocusDistance float64     `json:"focusDistance,omitempty"` // 0 focuses on lookAt
	ShutterOpen   float64     `json:"shutterOpen,omitempty"`
	ShutterClose  float64     `json:"shutterClose,omitempty"`
}

// SamplingFileConfig overrides renderer.DefaultSamplingConfig; zero values keep the default
type SamplingFileConfig struct {
	Width           int   `json:"width,omitempty"`
	Height          int   `json:"height,omitempty"` // derived from width and aspect when 0
	SamplesPerPixel int   `json:"samplesPerPixel,omitempty"`
	MaxDepth        int   `json:"maxDepth,omitempty"`
	Workers         int   `json:"workers,omitempty"`
	Seed            int64 `json:"seed,omitempty"`
}

type MaterialConfig struct {
	Type            string       `json:"type"` // lambertian, metal or dielectric
	Albedo          *ColorConfig `json:"albedo,omitempty"`
	Fuzz            float64      `json:"fuzz,omitempty"`
	RefractiveIndex float64      `json:"refractiveIndex,omitempty"`
}

type SphereConfig struct {
	Center   Vec3Config `json:"center"`
	Radius   float64    `json:"radius"`
	Material string     `json:"material"`
}

type MovingSphereConfig struct {
	Center0  Vec3Config `json:"center0"`
	Center1  Vec3Config `json:"center1"`
	Time0    float64    `json:"time0"`
	Time1    float64    `json:"time1"`
	Radius   float64    `json:"radius"`
	Material string     `json:"material"`
}

// Vec3Config is a vector written as [x, y, z]
type Vec3Config [3]float64

func (v Vec3Config) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// ColorConfig is a linear color written either as [r, g, b] in [0, 1] or as
// an SVG color name such as "steelblue"
type ColorConfig core.Color

func (c *ColorConfig) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		rgba, ok := colornames.Map[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown color name %q", name)
		}
		*c = ColorConfig(core.NewVec3(float64(rgba.R)/255, float64(rgba.G)/255, float64(rgba.B)/255))
		return nil
	}

	var rgb [3]float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be [r, g, b] or a color name: %w", err)
	}
	*c = ColorConfig(core.NewVec3(rgb[0], rgb[1], rgb[2]))
	return nil
}

// LoadScene reads a JSON scene file
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg.Build()
}

// Build turns the parsed file into a scene
func (cfg FileConfig) Build() (*Scene, error) {
	materials := make(map[string]material.Material, len(cfg.Materials))
	for name, mc := range cfg.Materials {
		mat, err := mc.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	lookup := func(name string) (material.Material, error) {
		mat, ok := materials[name]
		if !ok {
			return nil, fmt.Errorf("undefined material %q: %w", name, ErrInvalidScene)
		}
		return mat, nil
	}

	world := geometry.NewHittableList()
	for i, sc := range cfg.Spheres {
		mat, err := lookup(sc.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		world.Add(geometry.NewSphere(sc.Center.Vec3(), sc.Radius, mat))
	}
	for i, mc := range cfg.MovingSpheres {
		mat, err := lookup(mc.Material)
		if err != nil {
			return nil, fmt.Errorf("moving sphere %d: %w", i, err)
		}
		world.Add(geometry.NewMovingSphere(mc.Center0.Vec3(), mc.Center1.Vec3(), mc.Time0, mc.Time1, mc.Radius, mat))
	}
	if world.Len() == 0 {
		return nil, fmt.Errorf("scene has no objects: %w", ErrInvalidScene)
	}

	cameraConfig := cfg.Camera.Build()
	return &Scene{
		Name:           cfg.Name,
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: cfg.Sampling.Build(cameraConfig.AspectRatio),
	}, nil
}

// Build returns the material described by mc
func (mc MaterialConfig) Build() (material.Material, error) {
	albedo := core.NewVec3(0.5, 0.5, 0.5)
	if mc.Albedo != nil {
		albedo = core.Color(*mc.Albedo)
	}

	switch strings.ToLower(mc.Type) {
	case "lambertian", "diffuse":
		return material.NewLambertian(albedo), nil
	case "metal":
		return material.NewMetal(albedo, mc.Fuzz), nil
	case "dielectric", "glass":
		if mc.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("refractive index %v must be positive: %w", mc.RefractiveIndex, ErrInvalidScene)
		}
		return material.NewDielectric(mc.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("unknown material type %q: %w", mc.Type, ErrInvalidScene)
	}
}

// Build returns the camera configuration with defaults applied
func (cc CameraFileConfig) Build() renderer.CameraConfig {
	up := core.NewVec3(0, 1, 0)
	if cc.Up != nil {
		up = cc.Up.Vec3()
	}
	aspect := cc.AspectRatio
	if aspect == 0 {
		aspect = 16.0 / 9.0
	}
	return renderer.CameraConfig{
		LookFrom:      cc.LookFrom.Vec3(),
		LookAt:        cc.LookAt.Vec3(),
		Up:            up,
		VFov:          cc.VFov,
		AspectRatio:   aspect,
		Aperture:      cc.Aperture,
		FocusDistance: cc.FocusDistance,
		ShutterOpen:   cc.ShutterOpen,
		ShutterClose:  cc.ShutterClose,
	}
}

// Build returns the sampling configuration with defaults applied
func (sc SamplingFileConfig) Build(aspectRatio float64) renderer.SamplingConfig {
	config := renderer.DefaultSamplingConfig()
	if sc.Width > 0 {
		config.Width = sc.Width
	}
	config.Height = imageHeight(config.Width, aspectRatio)
	if sc.Height > 0 {
		config.Height = sc.Height
	}
	if sc.SamplesPerPixel > 0 {
		config.SamplesPerPixel = sc.SamplesPerPixel
	}
	if sc.MaxDepth > 0 {
		config.MaxDepth = sc.MaxDepth
	}
	if sc.Workers > 0 {
		config.NumWorkers = sc.Workers
	}
	if sc.Seed != 0 {
		config.Seed = sc.Seed
	}
	return config
}
