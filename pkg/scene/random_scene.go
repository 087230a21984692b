package scene

import (
	"math/rand"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// gridExtent is the half-width of the small-sphere grid
const gridExtent = 11

type smallSphereMaterial func(sampler core.Sampler, choose float64) material.Material

// NewRandomScene creates the classic cover scene: a ground sphere, a 22x22
// grid of small random spheres and three large feature spheres. Every diffuse
// sphere also gets a moving twin that rises during the shutter interval.
func NewRandomScene(seed int64) *Scene {
	return newSphereGridScene("random", seed, func(sampler core.Sampler, choose float64) material.Material {
		switch {
		case choose < 0.8:
			albedo := core.RandomVec3(sampler).MultiplyVec(core.RandomVec3(sampler))
			return material.NewLambertian(albedo)
		case choose < 0.95:
			albedo := core.RandomVec3InRange(sampler, 0.5, 1)
			fuzz := core.RandomInRange(sampler, 0, 0.5)
			return material.NewMetal(albedo, fuzz)
		default:
			return material.NewDielectric(1.5)
		}
	})
}

// NewGlassSpheresScene creates the benchmark variant of the random scene
// where every small sphere is glass
func NewGlassSpheresScene(seed int64) *Scene {
	return newSphereGridScene("glass-spheres", seed, func(core.Sampler, float64) material.Material {
		return material.NewDielectric(1.5)
	})
}

func newSphereGridScene(name string, seed int64, pick smallSphereMaterial) *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
		ShutterOpen:   0.0,
		ShutterClose:  1.0,
	}

	samplingConfig := renderer.DefaultSamplingConfig()
	samplingConfig.Height = imageHeight(samplingConfig.Width, cameraConfig.AspectRatio)
	samplingConfig.Seed = seed

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	keepOut := core.NewVec3(4, 0.2, 0)
	for a := -gridExtent; a < gridExtent; a++ {
		for b := -gridExtent; b < gridExtent; b++ {
			choose := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				0.2,
				float64(b)+0.9*sampler.Get1D(),
			)

			// Leave room around the large metal sphere
			if center.Subtract(keepOut).Length() <= 0.9 {
				continue
			}

			mat := pick(sampler, choose)
			world.Add(geometry.NewSphere(center, 0.2, mat))

			if _, diffuse := mat.(*material.Lambertian); diffuse {
				center1 := center.Add(core.NewVec3(0, core.RandomInRange(sampler, 0, 0.5), 0))
				world.Add(geometry.NewMovingSphere(center, center1, 0, 1, 0.2, mat))
			}
		}
	}

	world.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)))
	world.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	world.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return &Scene{
		Name:           name,
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
	}
}
