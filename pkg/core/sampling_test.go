package core

import (
	"math"
	"testing"
)

// constantSampler always returns the same value, which makes every
// rejection loop reject forever
type constantSampler struct {
	value float64
}

func (c constantSampler) Get1D() float64 { return c.value }
func (c constantSampler) Get2D() Vec2    { return NewVec2(c.value, c.value) }
func (c constantSampler) Get3D() Vec3    { return NewVec3(c.value, c.value, c.value) }

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Sample %d outside unit sphere: %v", i, p)
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(7)
	for i := 0; i < 1000; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Sample %d not unit length: %v (len %f)", i, v, v.Length())
		}
	}
}

func TestRandomInHemisphere(t *testing.T) {
	sampler := NewSeededSampler(3)
	normal := NewVec3(0, 1, 0)
	for i := 0; i < 1000; i++ {
		p := RandomInHemisphere(sampler, normal)
		if p.Dot(normal) < 0 {
			t.Fatalf("Sample %d below hemisphere: %v", i, p)
		}
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(11)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample %d left the z=0 plane: %v", i, p)
		}
		if p.LengthSquared() >= 1 {
			t.Fatalf("Disk sample %d outside unit disk: %v", i, p)
		}
	}
}

func TestRejectionSamplingTerminatesWithBiasedSampler(t *testing.T) {
	// 0.999 maps to (0.998, 0.998, 0.998) in [-1,1]^3, always rejected
	biased := constantSampler{value: 0.999}

	p := RandomInUnitSphere(biased)
	if p.Length() > 1+1e-9 {
		t.Errorf("Fallback sphere sample outside unit sphere: %v", p)
	}

	d := RandomInUnitDisk(biased)
	if d.Length() > 1+1e-9 || d.Z != 0 {
		t.Errorf("Fallback disk sample outside unit disk: %v", d)
	}

	u := RandomUnitVector(constantSampler{value: 0.5})
	if math.Abs(u.Length()-1) > 1e-9 {
		t.Errorf("Degenerate unit vector fallback should be unit length, got %v", u)
	}
}

func TestRandomVec3InRange(t *testing.T) {
	sampler := NewSeededSampler(5)
	for i := 0; i < 500; i++ {
		v := RandomVec3InRange(sampler, 0.5, 1.0)
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if c < 0.5 || c >= 1.0 {
				t.Fatalf("Component %f outside [0.5, 1.0)", c)
			}
		}
	}
}

func TestSeededSamplerIsDeterministic(t *testing.T) {
	a := NewSeededSampler(99)
	b := NewSeededSampler(99)
	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with equal seeds diverged")
		}
	}
}
