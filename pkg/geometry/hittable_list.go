package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// HittableList is an ordered collection of hittables tested linearly.
// It is built once before a render and must not be modified while workers
// are reading it.
type HittableList struct {
	objects []Hittable
}

// NewHittableList creates a list holding the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	list := &HittableList{}
	for _, object := range objects {
		list.Add(object)
	}
	return list
}

// Add appends an object to the list. Nil objects are ignored.
func (l *HittableList) Add(object Hittable) {
	if object == nil {
		return
	}
	l.objects = append(l.objects, object)
}

// Clear removes every object
func (l *HittableList) Clear() {
	l.objects = nil
}

// Len returns the number of objects in the list
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns a copy of the list's members
func (l *HittableList) Objects() []Hittable {
	return append([]Hittable(nil), l.objects...)
}

// Hit returns the closest intersection among all members.
// Each accepted hit shrinks tMax so later members only report closer hits.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) HitResult {
	var tempRec material.HitRecord
	result := Miss()
	closestSoFar := tMax

	for _, object := range l.objects {
		if hit := object.Hit(ray, tMin, closestSoFar, &tempRec); hit.IsHit() {
			closestSoFar = tempRec.T
			*rec = tempRec
			result = hit
		}
	}

	return result
}

// Validate checks every member that can be validated and joins the errors
func (l *HittableList) Validate() error {
	var errs []error
	for i, object := range l.objects {
		validator, ok := object.(Validator)
		if !ok {
			continue
		}
		if err := validator.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
