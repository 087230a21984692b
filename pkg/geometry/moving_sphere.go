package geometry

import (
	"fmt"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// MovingSphere is a sphere whose center travels linearly from Center0 at
// Time0 to Center1 at Time1. Rays are tested against the center at the
// ray's own time, which produces motion blur once times are jittered
// across the shutter interval.
type MovingSphere struct {
	Center0, Center1 core.Point3
	Time0, Time1     float64
	Radius           float64
	Material         material.Material
}

// NewMovingSphere creates a new moving sphere
func NewMovingSphere(center0, center1 core.Point3, time0, time1, radius float64, mat material.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: mat,
	}
}

// CenterAt returns the sphere center at the given time.
// Times outside [Time0, Time1] extrapolate along the same line; an empty
// interval pins the sphere at Center0.
func (s *MovingSphere) CenterAt(time float64) core.Point3 {
	span := s.Time1 - s.Time0
	if span == 0 {
		return s.Center0
	}
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply((time - s.Time0) / span))
}

// Hit tests if a ray intersects with the sphere at the ray's time
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) HitResult {
	if s.Material == nil {
		return Miss()
	}
	return hitSphere(s.CenterAt(ray.Time), s.Radius, s.Material, ray, tMin, tMax, rec)
}

// Validate reports degenerate moving sphere parameters
func (s *MovingSphere) Validate() error {
	if err := validateSphere(s.Center0, s.Radius, s.Material); err != nil {
		return err
	}
	if !s.Center1.IsFinite() {
		return fmt.Errorf("moving sphere end center %v is not finite: %w", s.Center1, core.ErrDegenerateGeometry)
	}
	if s.Time0 == s.Time1 && s.Center0 != s.Center1 {
		return fmt.Errorf("moving sphere has empty time interval [%v, %v]: %w", s.Time0, s.Time1, core.ErrDegenerateGeometry)
	}
	return nil
}
