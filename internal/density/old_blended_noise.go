package density

import (
	"github.com/StoreStation/VibeShitCraft/internal/noise"
	"github.com/StoreStation/VibeShitCraft/internal/rng"
)

func newLegacySeed(seed int64) rng.Generator { return rng.NewLCG48(seed) }

// OldBlendedNoise implements the pre-1.18 terrain-shape noise still used
// for pre-existing chunk blending. Per spec §9 Design Notes, this is
// DELIBERATELY seeded from the constant 0, not the world seed — a
// documented vanilla divergence this implementation replicates rather than
// "fixes".
//
// The vanilla algorithm cascades three octave ladders (min-limit,
// max-limit, each 16 octaves from -15, and a main 8-octave ladder from 0)
// and interpolates between the limit noises using the main noise as a
// blend factor. This implementation reproduces that structure using the
// same ImprovedNoise octave machinery internal/noise exposes for
// PerlinNoise, rather than vanilla's exact xzFactor/yFactor smear
// constants, since spec.md does not specify those numerically; it
// preserves the qualitative shape (cheap low-frequency terrain blended
// across old/new chunk borders) without claiming bit-exact vanilla parity.
type OldBlendedNoise struct {
	minLimit, maxLimit, main *noise.PerlinNoise
	xzScale, yScale          float64
	xzFactor, yFactor        float64
}

const oldBlendedNoiseSeed = 0

// NewOldBlendedNoise constructs the singleton old-blended-noise generator.
// Always seeded from 0 (see type doc).
func NewOldBlendedNoise() *OldBlendedNoise {
	r := newLegacySeed(oldBlendedNoiseSeed)
	minAmps := make([]float64, 16)
	maxAmps := make([]float64, 16)
	mainAmps := make([]float64, 8)
	for i := range minAmps {
		minAmps[i] = 1
		maxAmps[i] = 1
	}
	for i := range mainAmps {
		mainAmps[i] = 1
	}
	return &OldBlendedNoise{
		minLimit: noise.NewPerlinNoiseLegacy(r, -15, minAmps),
		maxLimit: noise.NewPerlinNoiseLegacy(r, -15, maxAmps),
		main:     noise.NewPerlinNoiseLegacy(r, 0, mainAmps),
		xzScale:  684.412 * 684.412 / 80.0,
		yScale:   684.412 * 684.412 / 160.0,
		xzFactor: 80.0,
		yFactor:  160.0,
	}
}

// GetVal evaluates the blended terrain-shape noise at a block position.
func (o *OldBlendedNoise) GetVal(x, y, z float64) float64 {
	xs := x * o.xzScale / o.xzFactor
	ys := y * o.yScale / o.yFactor
	zs := z * o.xzScale / o.xzFactor
	mainVal := o.main.GetVal(xs, ys, zs) / 10.0
	t := clampF((mainVal+1.0)/2.0, 0, 1)
	minVal := o.minLimit.GetVal(xs, ys, zs)
	maxVal := o.maxLimit.GetVal(xs, ys, zs)
	return minVal + t*(maxVal-minVal)
}

// Max is a conservative static bound for density min/max propagation.
func (o *OldBlendedNoise) Max() float64 { return 1.0 }

// OldBlendedNoiseFn is the density-function node wrapping the shared
// OldBlendedNoise singleton.
type OldBlendedNoiseFn struct {
	Shared *OldBlendedNoise
}

func (f *OldBlendedNoiseFn) Compute(x, y, z float64) float64 { return f.Shared.GetVal(x, y, z) }
func (f *OldBlendedNoiseFn) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(f, positions, out)
}
func (f *OldBlendedNoiseFn) Min() float64     { return -f.Shared.Max() }
func (f *OldBlendedNoiseFn) Max() float64     { return f.Shared.Max() }
func (f *OldBlendedNoiseFn) TreeHash() uint64 { return 0x4F4C44424C454E44 }
