package geometry

import (
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// Hittable interface for objects that can be hit by rays.
// On a hit the implementation fills rec and returns a result carrying the
// surface material; on a miss rec must be treated as garbage.
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) HitResult
}

// Validator is implemented by hittables that can detect degenerate
// configurations before a render starts
type Validator interface {
	Validate() error
}

// HitResult is the outcome of an intersection test: either a miss or a hit
// tagged with the material of the surface that was struck
type HitResult struct {
	material material.Material
}

// Miss returns the result for a ray that hit nothing
func Miss() HitResult {
	return HitResult{}
}

// HitWith returns a hit result for a surface with the given material
func HitWith(mat material.Material) HitResult {
	return HitResult{material: mat}
}

// IsHit reports whether the ray struck a surface
func (h HitResult) IsHit() bool {
	return h.material != nil
}

// Material returns the struck surface's material, nil on a miss
func (h HitResult) Material() material.Material {
	return h.material
}
