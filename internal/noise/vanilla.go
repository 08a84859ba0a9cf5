package noise

import (
	"fmt"

	"github.com/StoreStation/VibeShitCraft/internal/rng"
)

// octaveSource abstracts how an octave ladder derives its per-octave
// ImprovedNoise children. Its only implementation is xoroshiroOctaveSource
// (modern Xoroshiro positional hashing); the legacy path,
// NewPerlinNoiseLegacy, draws its octaves from a linear rng.Generator
// directly.
type octaveSource interface {
	octaveAt(firstOctave int32, i int32) *ImprovedNoise
}

type xoroshiroOctaveSource struct{ pos *rng.XoroshiroPositional }

func (s xoroshiroOctaveSource) octaveAt(firstOctave, i int32) *ImprovedNoise {
	return NewImprovedNoise(s.pos.HashToRand(fmt.Sprintf("octave_%d", firstOctave+i)))
}

// PerlinNoise is one octave ladder: a stack of ImprovedNoise levels sampled
// at doubling input scale and halving output weight, grounded on
// noise_generator.rs PerlinNoise::new / get_val / edge_val.
type PerlinNoise struct {
	levels            []*ImprovedNoise
	lowestValFactor   float64
	lowestInputFactor float64
	maxVal            float64
	firstOctave       int32
	amplitudes        []float64
}

// NewPerlinNoiseModern builds an octave ladder using positional per-octave
// string hashing ("octave_{firstOctave+i}"), the post-1.18 construction
// path.
func NewPerlinNoiseModern(pos *rng.XoroshiroPositional, firstOctave int32, amplitudes []float64) *PerlinNoise {
	src := xoroshiroOctaveSource{pos: pos}
	levels := make([]*ImprovedNoise, len(amplitudes))
	for i, amp := range amplitudes {
		if amp != 0 {
			levels[i] = src.octaveAt(firstOctave, int32(i))
		} else {
			levels[i] = DisabledImprovedNoise()
		}
	}
	return newPerlinNoise(levels, firstOctave, amplitudes)
}

// NewPerlinNoiseLegacy builds an octave ladder from a single linear
// generator, walking amplitude slots in reverse and skipping 262 draws for
// each zero-weight slot to keep RNG position aligned with vanilla's legacy
// noise construction.
func NewPerlinNoiseLegacy(r rng.Generator, firstOctave int32, amplitudes []float64) *PerlinNoise {
	n := len(amplitudes)
	levels := make([]*ImprovedNoise, n)
	for i := range levels {
		levels[i] = DisabledImprovedNoise()
	}
	base := NewImprovedNoise(r)
	negFirst := -firstOctave
	if negFirst >= 0 && int(negFirst) < n && amplitudes[negFirst] != 0 {
		levels[negFirst] = base
	}
	for i := negFirst - 1; i >= 0; i-- {
		if int(i) < n && amplitudes[i] != 0 {
			levels[i] = NewImprovedNoise(r)
		} else {
			r.Skip(262)
		}
	}
	return newPerlinNoise(levels, firstOctave, amplitudes)
}

func newPerlinNoise(levels []*ImprovedNoise, firstOctave int32, amplitudes []float64) *PerlinNoise {
	n := len(amplitudes)
	lowestValFactor := pow2(float64(n)-1.0) / (pow2(float64(n)) - 1.0)
	lowestInputFactor := pow2(float64(firstOctave))
	p := &PerlinNoise{
		levels:            levels,
		lowestValFactor:   lowestValFactor,
		lowestInputFactor: lowestInputFactor,
		firstOctave:       firstOctave,
		amplitudes:        amplitudes,
	}
	p.maxVal = p.edgeVal(2.0)
	return p
}

func pow2(e float64) float64 {
	r := 1.0
	for e > 0 {
		r *= 2
		e--
	}
	for e < 0 {
		r /= 2
		e++
	}
	return r
}

func (p *PerlinNoise) edgeVal(val float64) float64 {
	result := 0.0
	lowest := p.lowestValFactor
	for i, level := range p.levels {
		if !level.Disabled {
			result += p.amplitudes[i] * val * lowest
		}
		lowest /= 2.0
	}
	return result
}

// GetVal evaluates the full octave ladder at (x,y,z).
func (p *PerlinNoise) GetVal(x, y, z float64) float64 {
	value := 0.0
	inputFactor := p.lowestInputFactor
	valueFactor := p.lowestValFactor
	for i, level := range p.levels {
		if !level.Disabled {
			value += p.amplitudes[i] * level.Sample(wrap(x*inputFactor), wrap(y*inputFactor), wrap(z*inputFactor), 0, 0) * valueFactor
		}
		inputFactor *= 2.0
		valueFactor /= 2.0
	}
	return value
}

func (p *PerlinNoise) maxValue() float64 { return p.maxVal }

// second-octave coordinate scale factor applied by VanillaNoise's second
// perlin stack.
const vanillaSecondFactor = 1.0181268882175227

// VanillaNoise is the "double Perlin" noise used throughout worldgen: two
// independent octave ladders summed and scaled, grounded on
// noise_generator.rs VanillaNoise::new/get_val.
type VanillaNoise struct {
	noise1, noise2    *PerlinNoise
	valFactor, valMax float64
}

// Arguments mirrors the noise JSON asset schema (firstOctave + amplitudes).
type Arguments struct {
	FirstOctave int32
	Amplitudes  []float64
}

func ampRange(amplitudes []float64) (minIdx, maxIdx int32) {
	minIdx, maxIdx = int32(1<<30), int32(-(1 << 30))
	for i, amp := range amplitudes {
		if amp != 0 {
			if int32(i) < minIdx {
				minIdx = int32(i)
			}
			if int32(i) > maxIdx {
				maxIdx = int32(i)
			}
		}
	}
	return
}

func valFactorFor(minIdx, maxIdx int32) float64 {
	return (1.0 / 6.0) / (0.1 * (1.0 + 1.0/float64(maxIdx-minIdx+1)))
}

// NewVanillaNoiseModern constructs the double-Perlin stack using the
// post-1.18 positional per-octave construction path.
func NewVanillaNoiseModern(r *rng.Xoroshiro, args Arguments) *VanillaNoise {
	minIdx, maxIdx := ampRange(args.Amplitudes)
	noise1 := NewPerlinNoiseModern(r.Branch().BranchPositional(), args.FirstOctave, args.Amplitudes)
	noise2 := NewPerlinNoiseModern(r.Branch().BranchPositional(), args.FirstOctave, args.Amplitudes)
	valFactor := valFactorFor(minIdx, maxIdx)
	valMax := (noise1.maxValue() + noise2.maxValue()) * valFactor
	return &VanillaNoise{noise1: noise1, noise2: noise2, valFactor: valFactor, valMax: valMax}
}

// NewVanillaNoiseLegacy constructs the double-Perlin stack using the
// pre-1.18 single-linear-generator construction path, for either Xoroshiro
// or LCG48 legacy random sources.
func NewVanillaNoiseLegacy(r rng.Generator, args Arguments) *VanillaNoise {
	minIdx, maxIdx := ampRange(args.Amplitudes)
	noise1 := NewPerlinNoiseLegacy(r, args.FirstOctave, args.Amplitudes)
	noise2 := NewPerlinNoiseLegacy(r, args.FirstOctave, args.Amplitudes)
	valFactor := valFactorFor(minIdx, maxIdx)
	valMax := (noise1.maxValue() + noise2.maxValue()) * valFactor
	return &VanillaNoise{noise1: noise1, noise2: noise2, valFactor: valFactor, valMax: valMax}
}

// GetVal evaluates the double-Perlin stack, with the second octave ladder
// sampled at coordinates scaled by vanillaSecondFactor.
func (v *VanillaNoise) GetVal(x, y, z float64) float64 {
	x2 := x * vanillaSecondFactor
	y2 := y * vanillaSecondFactor
	z2 := z * vanillaSecondFactor
	return (v.noise1.GetVal(x, y, z) + v.noise2.GetVal(x2, y2, z2)) * v.valFactor
}

// Max returns the static upper bound used by density-function min/max
// bounds propagation (`noise`/`shifted_noise` variants).
func (v *VanillaNoise) Max() float64 { return v.valMax }
