package core

import "errors"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// ErrDegenerateGeometry marks inputs that would divide by (near) zero:
// zero radius spheres, zero-length directions, empty shutter intervals and
// collapsed camera bases.
var ErrDegenerateGeometry = errors.New("degenerate geometry")
