package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// Sphere represents a sphere shape.
// A negative radius keeps the geometry but flips the normals inward, which
// is how hollow glass spheres are built.
type Sphere struct {
	Center   core.Point3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Point3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) HitResult {
	if s.Material == nil {
		return Miss()
	}
	return hitSphere(s.Center, s.Radius, s.Material, ray, tMin, tMax, rec)
}

// Validate reports degenerate sphere parameters
func (s *Sphere) Validate() error {
	return validateSphere(s.Center, s.Radius, s.Material)
}

// hitSphere solves |O + tD - C|² = r² with the half-b form of the quadratic
func hitSphere(center core.Point3, radius float64, mat material.Material, ray core.Ray, tMin, tMax float64, rec *material.HitRecord) HitResult {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(center)

	a := ray.Direction.LengthSquared()
	if a == 0 || radius == 0 {
		return Miss()
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return Miss()
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return Miss()
		}
	}

	rec.T = root
	rec.Point = ray.At(root)

	// Calculate outward normal (from center to hit point)
	outwardNormal := rec.Point.Subtract(center).Divide(radius)
	rec.SetFaceNormal(ray, outwardNormal)

	return HitWith(mat)
}

func validateSphere(center core.Point3, radius float64, mat material.Material) error {
	if mat == nil {
		return fmt.Errorf("sphere at %v has no material: %w", center, core.ErrDegenerateGeometry)
	}
	if !center.IsFinite() {
		return fmt.Errorf("sphere center %v is not finite: %w", center, core.ErrDegenerateGeometry)
	}
	if radius == 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return fmt.Errorf("sphere at %v has invalid radius %v: %w", center, radius, core.ErrDegenerateGeometry)
	}
	return nil
}
