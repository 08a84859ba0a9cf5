package density

import "testing"

type fakeNoise struct{ v, max float64 }

func (f fakeNoise) GetVal(x, y, z float64) float64 { return f.v }
func (f fakeNoise) Max() float64                   { return f.max }

func TestAddMulConstants(t *testing.T) {
	sum := Add(Const(2), Const(3))
	if got := sum.Compute(0, 0, 0); got != 5 {
		t.Fatalf("add: got %v want 5", got)
	}
	prod := Mul(Const(2), Const(3))
	if got := prod.Compute(0, 0, 0); got != 6 {
		t.Fatalf("mul: got %v want 6", got)
	}
	if got := prod.Min(); got != 6 {
		t.Fatalf("mul min: got %v want 6", got)
	}
}

// boom panics if Compute is ever called, used to prove the short-circuit
// never evaluates the second operand.
type boom struct{ lo, hi float64 }

func (b boom) Compute(x, y, z float64) float64 { panic("should not be evaluated") }
func (b boom) ComputeSlice(positions []Pos, out []float64) {
	panic("should not be evaluated")
}
func (b boom) Min() float64     { return b.lo }
func (b boom) Max() float64     { return b.hi }
func (b boom) TreeHash() uint64 { return 0 }

func TestMinShortCircuits(t *testing.T) {
	m := MinOf(Const(-5), boom{lo: 0, hi: 10})
	if got := m.Compute(0, 0, 0); got != -5 {
		t.Fatalf("got %v want -5", got)
	}
}

func TestMaxShortCircuits(t *testing.T) {
	m := MaxOf(Const(15), boom{lo: -10, hi: 0})
	if got := m.Compute(0, 0, 0); got != 15 {
		t.Fatalf("got %v want 15", got)
	}
}

func TestMinDoesEvaluateWhenAmbiguous(t *testing.T) {
	evaluated := false
	probe := &fnNode{
		compute: func(x, y, z float64) float64 { evaluated = true; return 2 },
		lo:      -1, hi: 5,
	}
	m := MinOf(Const(3), probe)
	if got := m.Compute(0, 0, 0); got != 2 {
		t.Fatalf("got %v want 2", got)
	}
	if !evaluated {
		t.Fatal("expected b to be evaluated since a (3) >= b.Min() (-1)")
	}
}

type fnNode struct {
	compute func(x, y, z float64) float64
	lo, hi  float64
}

func (f *fnNode) Compute(x, y, z float64) float64 { return f.compute(x, y, z) }
func (f *fnNode) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(f, positions, out)
}
func (f *fnNode) Min() float64     { return f.lo }
func (f *fnNode) Max() float64     { return f.hi }
func (f *fnNode) TreeHash() uint64 { return 0 }

func TestWeirdScaledSamplerRarityTables(t *testing.T) {
	w := &WeirdScaledSampler{Input: Const(-0.6), N: fakeNoise{v: 0.5, max: 1}, Type: Rarity3D}
	if got := w.rarity(-0.6); got != 0.75 {
		t.Fatalf("3D rarity(-0.6): got %v want 0.75", got)
	}
	if got := w.Max(); got != 2.0 {
		t.Fatalf("3D max: got %v want 2.0", got)
	}
	w2 := &WeirdScaledSampler{Input: Const(-0.6), N: fakeNoise{v: 0.5, max: 1}, Type: Rarity2D}
	if got := w2.rarity(-0.6); got != 0.75 {
		t.Fatalf("2D rarity(-0.6): got %v want 0.75", got)
	}
	if got := w2.Max(); got != 3.0 {
		t.Fatalf("2D max: got %v want 3.0", got)
	}
}

func TestSqueezeFormula(t *testing.T) {
	sq := Squeeze(Const(2.0))
	got := sq.Compute(0, 0, 0)
	want := 1.0/2 - 1.0/24
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAbsBounds(t *testing.T) {
	a := Abs(&fnNode{compute: func(x, y, z float64) float64 { return 0 }, lo: -3, hi: 5})
	if got := a.Min(); got != 0 {
		t.Fatalf("abs min spanning zero: got %v want 0", got)
	}
	if got := a.Max(); got != 5 {
		t.Fatalf("abs max: got %v want 5", got)
	}
}

func TestSplineHermiteEndpointsClampFlat(t *testing.T) {
	s := &Spline{
		Coordinate: Const(100),
		Points: []SplinePoint{
			{Location: 0, Value: Const(1), Derivative: 0},
			{Location: 1, Value: Const(2), Derivative: 0},
		},
	}
	if got := s.Compute(0, 0, 0); got != 2 {
		t.Fatalf("spline past last point: got %v want 2 (clamp to last)", got)
	}
}

func TestJSONParseAddOfConstants(t *testing.T) {
	reg := NewRegistry(nil, func(name string) ([]byte, error) { return nil, nil })
	raw := []byte(`{"type":"minecraft:add","argument1":2.0,"argument2":3.0}`)
	f, err := ParseFunction(raw, reg)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Compute(0, 0, 0); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}
