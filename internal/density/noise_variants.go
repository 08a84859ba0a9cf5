package density

import "github.com/StoreStation/VibeShitCraft/internal/noise"

// VanillaNoise is the subset of *noise.VanillaNoise the density tree needs;
// declared as an interface so tests can substitute fakes without
// constructing a real octave ladder.
type VanillaNoise interface {
	GetVal(x, y, z float64) float64
	Max() float64
}

var _ VanillaNoise = (*noise.VanillaNoise)(nil)

// Noise samples a named VanillaNoise at coordinates scaled by (XZScale,
// YScale, XZScale).
type Noise struct {
	N               VanillaNoise
	XZScale, YScale float64
	Name            string // for tree_hash identity; the noise itself isn't hashable cheaply
}

func (n *Noise) Compute(x, y, z float64) float64 {
	return n.N.GetVal(x*n.XZScale, y*n.YScale, z*n.XZScale)
}
func (n *Noise) ComputeSlice(positions []Pos, out []float64) { defaultComputeSlice(n, positions, out) }
func (n *Noise) Min() float64                                { return -n.N.Max() }
func (n *Noise) Max() float64                                { return n.N.Max() }
func (n *Noise) TreeHash() uint64 {
	return combineHash(0x4E4F495345, hashString(0, n.Name), floatBits(n.XZScale), floatBits(n.YScale))
}

// ShiftedNoise is Noise but with the sample point displaced by three
// density-function-valued shift offsets before scaling.
type ShiftedNoise struct {
	N                        VanillaNoise
	Name                     string
	XZScale, YScale          float64
	ShiftX, ShiftY, ShiftZ   Function
}

func (s *ShiftedNoise) Compute(x, y, z float64) float64 {
	sx := x + s.ShiftX.Compute(x, y, z)
	sy := y + s.ShiftY.Compute(x, y, z)
	sz := z + s.ShiftZ.Compute(x, y, z)
	return s.N.GetVal(sx*s.XZScale, sy*s.YScale, sz*s.XZScale)
}
func (s *ShiftedNoise) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(s, positions, out)
}
func (s *ShiftedNoise) Min() float64 { return -s.N.Max() }
func (s *ShiftedNoise) Max() float64 { return s.N.Max() }
func (s *ShiftedNoise) TreeHash() uint64 {
	return combineHash(0x53484E4F4953, hashString(0, s.Name), s.ShiftX.TreeHash(), s.ShiftY.TreeHash(), s.ShiftZ.TreeHash())
}

// ShiftA and ShiftB sample an offset noise at fixed quarter-scale axis
// permutations, the coordinate-warping primitives used by
// weird_scaled_sampler's and shifted_noise's shift inputs in vanilla
// worldgen.
type ShiftA struct {
	N    VanillaNoise
	Name string
}

func (s *ShiftA) Compute(x, y, z float64) float64 { return s.N.GetVal(x*0.25, 0, z*0.25) }
func (s *ShiftA) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(s, positions, out)
}
func (s *ShiftA) Min() float64          { return -s.N.Max() }
func (s *ShiftA) Max() float64          { return s.N.Max() }
func (s *ShiftA) TreeHash() uint64      { return hashString(0x53414E4F4953, s.Name) }

type ShiftB struct {
	N    VanillaNoise
	Name string
}

func (s *ShiftB) Compute(x, y, z float64) float64 { return s.N.GetVal(z*0.25, x*0.25, 0) }
func (s *ShiftB) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(s, positions, out)
}
func (s *ShiftB) Min() float64     { return -s.N.Max() }
func (s *ShiftB) Max() float64     { return s.N.Max() }
func (s *ShiftB) TreeHash() uint64 { return hashString(0x53424E4F4953, s.Name) }

// WeirdScaledSampler implements the spaghetti-cave rarity-warp sampler: a
// step-function "rarity" derived from Input modulates both the sample
// scale and output amplitude of Noise. Grounded on spec §4.2's rarity
// tables (S7 scenario values).
type WeirdScaledSampler struct {
	Input Function
	N     VanillaNoise
	Name  string
	Type  RarityType
}

// RarityType selects between the 2D and 3D spaghetti-rarity step tables.
type RarityType int

const (
	Rarity3D RarityType = iota
	Rarity2D
)

func spaghettiRarity3D(v float64) float64 {
	switch {
	case v < -0.5:
		return 0.75
	case v < 0:
		return 1.0
	case v < 0.5:
		return 1.5
	default:
		return 2.0
	}
}

func spaghettiRarity2D(v float64) float64 {
	switch {
	case v < -0.75:
		return 0.5
	case v < -0.5:
		return 0.75
	case v < 0.5:
		return 1.0
	case v < 0.75:
		return 2.0
	default:
		return 3.0
	}
}

func (w *WeirdScaledSampler) rarity(v float64) float64 {
	if w.Type == Rarity2D {
		return spaghettiRarity2D(v)
	}
	return spaghettiRarity3D(v)
}

func (w *WeirdScaledSampler) Compute(x, y, z float64) float64 {
	rarity := w.rarity(w.Input.Compute(x, y, z))
	val := w.N.GetVal(x/rarity, y/rarity, z/rarity)
	if val < 0 {
		val = -val
	}
	return rarity * val
}
func (w *WeirdScaledSampler) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(w, positions, out)
}
func (w *WeirdScaledSampler) Min() float64 { return 0 }
func (w *WeirdScaledSampler) Max() float64 {
	// Per spec §4.2: type 1 (3D) max is 2.0, type 2 (2D) max is 3.0.
	if w.Type == Rarity2D {
		return 3.0
	}
	return 2.0
}
func (w *WeirdScaledSampler) TreeHash() uint64 {
	return combineHash(0x57454952445343414D, w.Input.TreeHash(), hashString(0, w.Name), uint64(w.Type))
}
