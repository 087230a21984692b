package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	var rec material.HitRecord
	if result := sphere.Hit(ray, 0.001, 1000.0, &rec); result.IsHit() {
		t.Errorf("Expected miss, but got hit at t=%f", rec.T)
	}
	if result := sphere.Hit(ray, 0.001, 1000.0, &rec); result.Material() != nil {
		t.Error("A miss must not carry a material")
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			var rec material.HitRecord
			result := sphere.Hit(ray, 0.001, 1000.0, &rec)

			if !result.IsHit() {
				t.Fatal("Expected hit, but got miss")
			}
			if result.Material() != testMaterial {
				t.Error("Hit should carry the sphere's material")
			}
			if math.Abs(rec.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, rec.T)
			}
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
		})
	}
}

func TestSphere_Hit_NormalIsUnitAndRadial(t *testing.T) {
	center := core.NewVec3(1, -2, -5)
	sphere := NewSphere(center, 2.5, testMaterial)
	sampler := core.NewSeededSampler(4)

	for i := 0; i < 100; i++ {
		// Aim from a random origin straight at the center
		origin := center.Add(core.RandomUnitVector(sampler).Multiply(10))
		ray := core.NewRay(origin, center.Subtract(origin))

		var rec material.HitRecord
		if !sphere.Hit(ray, 0.001, math.Inf(1), &rec).IsHit() {
			t.Fatalf("Ray aimed at the center missed from %v", origin)
		}
		if math.Abs(rec.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Normal %v is not unit length", rec.Normal)
		}
		radial := rec.Point.Subtract(center).Normalize()
		if radial.Cross(rec.Normal).Length() > 1e-9 {
			t.Fatalf("Normal %v is not parallel to %v", rec.Normal, radial)
		}
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	var rec material.HitRecord
	if !sphere.Hit(ray, 0.001, 1000.0, &rec).IsHit() {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if rec.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, rec.Point)
	}
}

func TestSphere_Hit_RespectsRange(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name      string
		tMin      float64
		tMax      float64
		expectHit bool
		expectedT float64
	}{
		{"both roots in range", 0.001, 100, true, 4},
		{"near root excluded", 4.5, 100, true, 6},
		{"tMax before sphere", 0.001, 3.9, false, 0},
		{"tMin past sphere", 6.1, 100, false, 0},
		{"inclusive tMax", 0.001, 4, true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec material.HitRecord
			result := sphere.Hit(ray, tt.tMin, tt.tMax, &rec)
			if result.IsHit() != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, result.IsHit())
			}
			if tt.expectHit && math.Abs(rec.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, rec.T)
			}
		})
	}
}

func TestSphere_NegativeRadiusFlipsNormals(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), -1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	var rec material.HitRecord
	if !sphere.Hit(ray, 0.001, 1000.0, &rec).IsHit() {
		t.Fatal("Expected hit on negative-radius sphere")
	}
	// Outward normal points inward, so the ray is seen as hitting the back face
	if rec.FrontFace {
		t.Error("Negative radius sphere should report a back-face hit from outside")
	}
	if rec.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Normal should still oppose the ray, got %v", rec.Normal)
	}
}

func TestSphere_DegenerateInputsMiss(t *testing.T) {
	tests := []struct {
		name   string
		sphere *Sphere
		ray    core.Ray
	}{
		{"zero radius", NewSphere(core.NewVec3(0, 0, 0), 0, testMaterial), core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))},
		{"zero direction", NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial), core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 0))},
		{"nil material", NewSphere(core.NewVec3(0, 0, 0), 1, nil), core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec material.HitRecord
			if tt.sphere.Hit(tt.ray, 0.001, 1000, &rec).IsHit() {
				t.Error("Degenerate input should miss")
			}
			if !rec.Normal.IsFinite() || !rec.Point.IsFinite() {
				t.Error("Degenerate input must not write NaN into the record")
			}
		})
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sphere  *Sphere
		wantErr bool
	}{
		{"valid", NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial), false},
		{"hollow", NewSphere(core.NewVec3(0, 0, 0), -0.4, testMaterial), false},
		{"zero radius", NewSphere(core.NewVec3(0, 0, 0), 0, testMaterial), true},
		{"nan radius", NewSphere(core.NewVec3(0, 0, 0), math.NaN(), testMaterial), true},
		{"nil material", NewSphere(core.NewVec3(0, 0, 0), 1, nil), true},
		{"infinite center", NewSphere(core.NewVec3(math.Inf(1), 0, 0), 1, testMaterial), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, core.ErrDegenerateGeometry) {
				t.Errorf("Expected ErrDegenerateGeometry, got %v", err)
			}
		})
	}
}
