package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	LookFrom      core.Point3 // Camera position
	LookAt        core.Point3 // Point the camera is looking at
	Up            core.Vec3   // Up direction (usually (0,1,0))
	VFov          float64     // Vertical field of view in degrees
	AspectRatio   float64     // Viewport width over height
	Aperture      float64     // Lens diameter, 0 = pinhole (no depth of field)
	FocusDistance float64     // Distance to the plane in focus, 0 = auto (distance to LookAt)
	ShutterOpen   float64     // Time the shutter opens
	ShutterClose  float64     // Time the shutter closes
}

// Camera generates rays for rendering. It is immutable once built and
// shared read-only by every render worker.
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
	shutterOpen     float64
	shutterClose    float64
}

// NewCamera creates a thin-lens camera from the given configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.LookFrom.Subtract(config.LookAt).Length()
	}

	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal camera basis
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.LookFrom
	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		shutterOpen:     config.ShutterOpen,
		shutterClose:    config.ShutterClose,
	}, nil
}

// Validate reports camera configurations whose basis or viewport would collapse
func (c CameraConfig) Validate() error {
	view := c.LookFrom.Subtract(c.LookAt)
	switch {
	case !c.LookFrom.IsFinite() || !c.LookAt.IsFinite() || !c.Up.IsFinite():
		return fmt.Errorf("camera vectors must be finite: %w", core.ErrDegenerateGeometry)
	case view.NearZero():
		return fmt.Errorf("camera lookfrom %v equals lookat: %w", c.LookFrom, core.ErrDegenerateGeometry)
	case c.Up.Cross(view).NearZero():
		return fmt.Errorf("camera up %v is parallel to the view direction: %w", c.Up, core.ErrDegenerateGeometry)
	case c.VFov <= 0 || c.VFov >= 180:
		return fmt.Errorf("camera vfov %v outside (0, 180): %w", c.VFov, core.ErrDegenerateGeometry)
	case c.AspectRatio <= 0:
		return fmt.Errorf("camera aspect ratio %v must be positive: %w", c.AspectRatio, core.ErrDegenerateGeometry)
	case c.Aperture < 0:
		return fmt.Errorf("camera aperture %v must not be negative: %w", c.Aperture, core.ErrDegenerateGeometry)
	case c.FocusDistance < 0:
		return fmt.Errorf("camera focus distance %v must not be negative: %w", c.FocusDistance, core.ErrDegenerateGeometry)
	case c.ShutterClose < c.ShutterOpen:
		return fmt.Errorf("camera shutter closes (%v) before it opens (%v): %w", c.ShutterClose, c.ShutterOpen, core.ErrDegenerateGeometry)
	}
	return nil
}

// GetRay generates a ray for viewport coordinates (s, t) where 0 <= s,t <= 1.
// The origin is jittered across the lens disk and the time across the
// shutter interval, both drawn from sampler.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	time := c.shutterOpen
	if c.shutterClose > c.shutterOpen {
		time = core.RandomInRange(sampler, c.shutterOpen, c.shutterClose)
	}

	return core.NewRayAtTime(origin, direction, time)
}

// Origin returns the camera position
func (c *Camera) Origin() core.Point3 {
	return c.origin
}

// ShutterInterval returns the shutter open and close times
func (c *Camera) ShutterInterval() (openTime, closeTime float64) {
	return c.shutterOpen, c.shutterClose
}
