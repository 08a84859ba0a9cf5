package noise

import (
	"testing"

	"github.com/StoreStation/VibeShitCraft/internal/rng"
)

func TestVanillaNoiseDeterministic(t *testing.T) {
	args := Arguments{FirstOctave: -7, Amplitudes: []float64{1, 1, 1, 1, 1, 1, 1, 1}}
	a := NewVanillaNoiseModern(rng.NewXoroshiro(100), args)
	b := NewVanillaNoiseModern(rng.NewXoroshiro(100), args)
	for i := 0; i < 5; i++ {
		x, y, z := float64(i)*3.1, float64(i)*-2.2, float64(i)*0.7
		av, bv := a.GetVal(x, y, z), b.GetVal(x, y, z)
		if av != bv {
			t.Fatalf("noise diverged at sample %d: %v != %v", i, av, bv)
		}
	}
}

func TestVanillaNoiseWithinMaxBound(t *testing.T) {
	args := Arguments{FirstOctave: -4, Amplitudes: []float64{1, 1, 1}}
	v := NewVanillaNoiseModern(rng.NewXoroshiro(55), args)
	max := v.Max()
	for i := 0; i < 50; i++ {
		val := v.GetVal(float64(i), float64(i)*2, float64(i)*-1)
		if val > max || val < -max {
			t.Fatalf("sample %v exceeds max bound %v", val, max)
		}
	}
}
