// Package density implements the density-function expression tree: the
// recursive algebraic evaluator over 3-D coordinates that the chunk
// generator samples to decide solid/empty. Grounded on spec.md §3/§4.2 for
// variant semantics, cross-checked against
// _examples/original_source/src/server/terrain_gen/func_deserialize.rs's
// DensityArg enum (Constant / DensityFn / ExternalDensityFn) for the
// external-reference-resolution shape.
package density

import "github.com/StoreStation/VibeShitCraft/internal/coord"

// Pos is an unpacked sample coordinate, the element type compute_slice
// batches operate over.
type Pos struct {
	X, Y, Z int32
}

// Function is a node in the density expression tree. Every variant
// implements pointwise Compute, batched ComputeSlice, static Min/Max
// bounds, and a structural TreeHash used as a cache key.
type Function interface {
	Compute(x, y, z float64) float64
	ComputeSlice(positions []Pos, out []float64)
	Min() float64
	Max() float64
	TreeHash() uint64
}

// Const is a fixed value, the leaf of the tree.
type Const float64

func (c Const) Compute(x, y, z float64) float64 { return float64(c) }
func (c Const) ComputeSlice(positions []Pos, out []float64) {
	for i := range positions {
		out[i] = float64(c)
	}
}
func (c Const) Min() float64     { return float64(c) }
func (c Const) Max() float64     { return float64(c) }
func (c Const) TreeHash() uint64 { return hashFloat(0x434f4e53, float64(c)) }

// defaultComputeSlice evaluates Compute position-by-position; variants that
// can't meaningfully batch fall back to this.
func defaultComputeSlice(f Function, positions []Pos, out []float64) {
	for i, p := range positions {
		out[i] = f.Compute(float64(p.X), float64(p.Y), float64(p.Z))
	}
}

// UnpackSlice converts packed xyz coordinates (as produced by the chunk
// generator's sparse sample grid) into Pos values.
func UnpackSlice(packed []uint64) []Pos {
	out := make([]Pos, len(packed))
	for i, p := range packed {
		x, y, z := coord.UnpackXYZ(p)
		out[i] = Pos{X: x, Y: y, Z: z}
	}
	return out
}

type binaryOp struct {
	a, b Function
	kind uint64
	fn   func(a, b float64) float64
}

func (o *binaryOp) Compute(x, y, z float64) float64 {
	return o.fn(o.a.Compute(x, y, z), o.b.Compute(x, y, z))
}
func (o *binaryOp) ComputeSlice(positions []Pos, out []float64) {
	tmp := make([]float64, len(positions))
	o.a.ComputeSlice(positions, tmp)
	o.b.ComputeSlice(positions, out)
	for i := range out {
		out[i] = o.fn(tmp[i], out[i])
	}
}
func (o *binaryOp) TreeHash() uint64 { return combineHash(o.kind, o.a.TreeHash(), o.b.TreeHash()) }

// Add returns a+b.
func Add(a, b Function) Function {
	return &binaryOp{a: a, b: b, kind: 0xADD, fn: func(a, b float64) float64 { return a + b }}
}

func (o *binaryOp) Min() float64 {
	if o.kind == 0xADD {
		return o.a.Min() + o.b.Min()
	}
	return mulMin(o)
}
func (o *binaryOp) Max() float64 {
	if o.kind == 0xADD {
		return o.a.Max() + o.b.Max()
	}
	return mulMax(o)
}

// Mul returns a*b, with bounds computed via the 4-corner product rule: the
// extrema of a*b over independent ranges [aMin,aMax]x[bMin,bMax] are among
// the four corner products.
func Mul(a, b Function) Function {
	return &binaryOp{a: a, b: b, kind: 0x4D554C, fn: func(a, b float64) float64 { return a * b }}
}

func mulMin(o *binaryOp) float64 {
	corners := cornerProducts(o.a.Min(), o.a.Max(), o.b.Min(), o.b.Max())
	m := corners[0]
	for _, c := range corners[1:] {
		if c < m {
			m = c
		}
	}
	return m
}
func mulMax(o *binaryOp) float64 {
	corners := cornerProducts(o.a.Min(), o.a.Max(), o.b.Min(), o.b.Max())
	m := corners[0]
	for _, c := range corners[1:] {
		if c > m {
			m = c
		}
	}
	return m
}
func cornerProducts(aMin, aMax, bMin, bMax float64) [4]float64 {
	return [4]float64{aMin * bMin, aMin * bMax, aMax * bMin, aMax * bMax}
}

// minMaxOp implements the min/max variants, whose defining property is the
// short-circuit: compute(a) first, and only evaluate b if a's value does
// not already settle the result against b's static bound.
type minMaxOp struct {
	a, b   Function
	isMin  bool
}

// MinOf (the density-function variant, not the Function.Min() bound method)
// returns a node computing min(a.Compute, b.Compute) with the required
// short-circuit: if compute(a) < b.Min(), b is never evaluated.
func MinOf(a, b Function) Function { return &minMaxOp{a: a, b: b, isMin: true} }

// MaxOf returns a node computing max(a.Compute, b.Compute), short-circuiting
// symmetrically to MinOf.
func MaxOf(a, b Function) Function { return &minMaxOp{a: a, b: b, isMin: false} }

func (o *minMaxOp) Compute(x, y, z float64) float64 {
	av := o.a.Compute(x, y, z)
	if o.isMin {
		if av < o.b.Min() {
			return av
		}
		bv := o.b.Compute(x, y, z)
		if av < bv {
			return av
		}
		return bv
	}
	if av > o.b.Max() {
		return av
	}
	bv := o.b.Compute(x, y, z)
	if av > bv {
		return av
	}
	return bv
}

func (o *minMaxOp) ComputeSlice(positions []Pos, out []float64) {
	o.a.ComputeSlice(positions, out)
	bound := o.b.Min()
	if !o.isMin {
		bound = o.b.Max()
	}
	needB := false
	for _, av := range out {
		if (o.isMin && av >= bound) || (!o.isMin && av <= bound) {
			needB = true
			break
		}
	}
	if !needB {
		return
	}
	bvals := make([]float64, len(positions))
	o.b.ComputeSlice(positions, bvals)
	for i, av := range out {
		bv := bvals[i]
		if o.isMin {
			if bv < av {
				out[i] = bv
			}
		} else {
			if bv > av {
				out[i] = bv
			}
		}
	}
}

func (o *minMaxOp) Min() float64 {
	if o.isMin {
		return minF(o.a.Min(), o.b.Min())
	}
	return minF(o.a.Min(), o.b.Min())
}
func (o *minMaxOp) Max() float64 {
	return maxF(o.a.Max(), o.b.Max())
}
func (o *minMaxOp) TreeHash() uint64 {
	kind := uint64(0x4D494E)
	if !o.isMin {
		kind = 0x4D4158
	}
	return combineHash(kind, o.a.TreeHash(), o.b.TreeHash())
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// unary wraps a single-input transform with a uniform Min/Max/hash shape
// for the simple elementwise variants (abs, square, cube, ...).
type unary struct {
	in   Function
	kind uint64
	fn   func(float64) float64
	lo   func(f Function) float64
	hi   func(f Function) float64
}

func (u *unary) Compute(x, y, z float64) float64 { return u.fn(u.in.Compute(x, y, z)) }
func (u *unary) ComputeSlice(positions []Pos, out []float64) {
	u.in.ComputeSlice(positions, out)
	for i := range out {
		out[i] = u.fn(out[i])
	}
}
func (u *unary) Min() float64     { return u.lo(u.in) }
func (u *unary) Max() float64     { return u.hi(u.in) }
func (u *unary) TreeHash() uint64 { return combineHash(u.kind, u.in.TreeHash(), 0) }

// Abs returns |v|.
func Abs(in Function) Function {
	return &unary{in: in, kind: 0xABD, fn: func(v float64) float64 {
		if v < 0 {
			return -v
		}
		return v
	}, lo: func(f Function) float64 { return absBoundMin(f) }, hi: func(f Function) float64 { return absBoundMax(f) }}
}
func absBoundMin(f Function) float64 {
	lo, hi := f.Min(), f.Max()
	if lo <= 0 && hi >= 0 {
		return 0
	}
	return minF(absF(lo), absF(hi))
}
func absBoundMax(f Function) float64 {
	lo, hi := f.Min(), f.Max()
	return maxF(absF(lo), absF(hi))
}
func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Square returns v*v.
func Square(in Function) Function {
	return &unary{in: in, kind: 0x5371, fn: func(v float64) float64 { return v * v },
		lo: func(f Function) float64 { return absBoundMin(f) * absBoundMin(f) },
		hi: func(f Function) float64 { return absBoundMax(f) * absBoundMax(f) }}
}

// Cube returns v*v*v.
func Cube(in Function) Function {
	return &unary{in: in, kind: 0x4375, fn: func(v float64) float64 { return v * v * v },
		lo: func(f Function) float64 { v := f.Min(); return v * v * v },
		hi: func(f Function) float64 { v := f.Max(); return v * v * v }}
}

// HalfNegative returns v if v>0 else v/2.
func HalfNegative(in Function) Function {
	return &unary{in: in, kind: 0x484e, fn: func(v float64) float64 {
		if v > 0 {
			return v
		}
		return v / 2
	}, lo: func(f Function) float64 { return halfIfNeg(f.Min()) }, hi: func(f Function) float64 { return halfIfNeg(f.Max()) }}
}
func halfIfNeg(v float64) float64 {
	if v > 0 {
		return v
	}
	return v / 2
}

// QuarterNegative returns v if v>0 else v/4.
func QuarterNegative(in Function) Function {
	return &unary{in: in, kind: 0x514e, fn: func(v float64) float64 {
		if v > 0 {
			return v
		}
		return v / 4
	}, lo: func(f Function) float64 { return quarterIfNeg(f.Min()) }, hi: func(f Function) float64 { return quarterIfNeg(f.Max()) }}
}
func quarterIfNeg(v float64) float64 {
	if v > 0 {
		return v
	}
	return v / 4
}

// Squeeze returns clamp(v,-1,1)/2 - clamp(v,-1,1)^3/24.
func Squeeze(in Function) Function {
	squeeze := func(v float64) float64 {
		c := clampF(v, -1, 1)
		return c/2 - c*c*c/24
	}
	return &unary{in: in, kind: 0x5371657A, fn: squeeze,
		lo: func(f Function) float64 { return squeeze(f.Min()) },
		hi: func(f Function) float64 { return squeeze(f.Max()) }}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
