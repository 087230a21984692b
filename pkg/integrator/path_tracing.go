package integrator

import (
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// ShadowAcneEpsilon is the minimum ray parameter accepted as a hit. Scattered
// rays start on the surface they left, and without this margin floating
// point error makes them re-hit it immediately.
const ShadowAcneEpsilon = 0.001

// GradientBackground blends from Bottom at the horizon to Top at the zenith
// using the y component of the ray direction
type GradientBackground struct {
	Top    core.Color
	Bottom core.Color
}

// NewSkyGradient returns the default white-to-sky-blue background
func NewSkyGradient() GradientBackground {
	return GradientBackground{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Emit implements Background
func (g GradientBackground) Emit(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return g.Bottom.Multiply(1.0 - t).Add(g.Top.Multiply(t))
}

// PathTracingIntegrator implements fixed-depth recursive path tracing
type PathTracingIntegrator struct {
	background Background
}

// NewPathTracingIntegrator creates a path tracer lit by the default sky gradient
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return NewPathTracingIntegratorWithBackground(NewSkyGradient())
}

// NewPathTracingIntegratorWithBackground creates a path tracer with a custom background
func NewPathTracingIntegratorWithBackground(background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{background: background}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, depth int, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	var rec material.HitRecord
	hit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1), &rec)
	if !hit.IsHit() {
		return pt.background.Emit(ray)
	}

	scatter, didScatter := hit.Material().Scatter(ray, rec, sampler)
	if !didScatter {
		// Material absorbed the ray
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	return scatter.Attenuation.MultiplyVec(pt.RayColor(scatter.Scattered, world, depth-1, sampler))
}
