package material

import (
	"math"
	"testing"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.NewRayAtTime(core.NewVec3(0, 1, 0), rayDirection, 0.25)

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
	}

	result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(42))
	if !scattered {
		t.Error("Dielectric should always scatter")
	}

	expectedAttenuation := core.NewVec3(1.0, 1.0, 1.0)
	if result.Attenuation != expectedAttenuation {
		t.Errorf("Expected attenuation %v, got %v", expectedAttenuation, result.Attenuation)
	}

	if result.Scattered.Time != ray.Time {
		t.Errorf("Scattered ray should keep time %f, got %f", ray.Time, result.Scattered.Time)
	}

	// Refraction bends toward the normal, so the refracted ray is steeper
	hasRefraction := false
	for seed := int64(0); seed < 1000 && !hasRefraction; seed++ {
		result, _ := glass.Scatter(ray, hit, core.NewSeededSampler(seed))
		if result.Scattered.Direction.Normalize().Y < -0.5 {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Glass to air at a shallow angle
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, 0, 0), rayDirection)

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false, // Exiting the material
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	for i := 0; i < 10; i++ {
		result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(int64(i)))
		if !scattered {
			t.Error("Dielectric should always scatter")
		}

		if result.Scattered.Direction.Y <= 0 {
			t.Errorf("Expected total internal reflection (ray going up), got %+v", result.Scattered.Direction)
		}

		if math.Abs(result.Scattered.Direction.X-rayDirection.X) > 1e-10 {
			t.Errorf("Expected X component %.6f, got %.6f", rayDirection.X, result.Scattered.Direction.X)
		}
	}
}

func TestDielectricNormalIncidenceMostlyTransmits(t *testing.T) {
	glass := NewDielectric(1.5)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	sampler := core.NewSeededSampler(1)
	transmitted := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		result, _ := glass.Scatter(ray, hit, sampler)
		if result.Scattered.Direction.Y < 0 {
			// Normal incidence refracts straight through
			if result.Scattered.Direction.Subtract(core.NewVec3(0, -1, 0)).Length() > 1e-9 {
				t.Fatalf("Normal incidence should not bend, got %v", result.Scattered.Direction)
			}
			transmitted++
		}
	}

	// Schlick gives 4% reflectance at normal incidence for glass
	fraction := float64(transmitted) / trials
	if fraction < 0.93 || fraction > 0.99 {
		t.Errorf("Expected ~96%% transmission, got %.3f", fraction)
	}
}
