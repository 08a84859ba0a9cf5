package density

// Clamp clamps compute(in) to [lo,hi]. Per spec §4.2, bounds are the literal
// clamp constants, not derived by recursing into the input.
type Clamp struct {
	In     Function
	Lo, Hi float64
}

func (c *Clamp) Compute(x, y, z float64) float64 { return clampF(c.In.Compute(x, y, z), c.Lo, c.Hi) }
func (c *Clamp) ComputeSlice(positions []Pos, out []float64) {
	c.In.ComputeSlice(positions, out)
	for i := range out {
		out[i] = clampF(out[i], c.Lo, c.Hi)
	}
}
func (c *Clamp) Min() float64 { return c.Lo }
func (c *Clamp) Max() float64 { return c.Hi }
func (c *Clamp) TreeHash() uint64 {
	return combineHash(0x434C414D50, c.In.TreeHash(), floatBits(c.Lo), floatBits(c.Hi))
}

// YClampedGradient linearly maps the input y coordinate from
// [FromY,ToY] to [FromValue,ToValue], clamped outside that range. Per
// spec §4.2, bounds are the literal from/to value constants.
type YClampedGradient struct {
	FromY, ToY         float64
	FromValue, ToValue float64
}

func (g *YClampedGradient) Compute(x, y, z float64) float64 {
	if g.ToY == g.FromY {
		if y <= g.FromY {
			return g.FromValue
		}
		return g.ToValue
	}
	t := (y - g.FromY) / (g.ToY - g.FromY)
	t = clampF(t, 0, 1)
	return g.FromValue + t*(g.ToValue-g.FromValue)
}
func (g *YClampedGradient) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(g, positions, out)
}
func (g *YClampedGradient) Min() float64 { return minF(g.FromValue, g.ToValue) }
func (g *YClampedGradient) Max() float64 { return maxF(g.FromValue, g.ToValue) }
func (g *YClampedGradient) TreeHash() uint64 {
	return combineHash(0x59434C414D50, floatBits(g.FromY), floatBits(g.ToY), floatBits(g.FromValue), floatBits(g.ToValue))
}

func floatBits(v float64) uint64 {
	return hashFloat(0, v)
}

// RangeChoice evaluates Input once; if Lo <= input < Hi, returns
// compute(InRange), else compute(OutOfRange).
type RangeChoice struct {
	Input              Function
	Lo, Hi             float64
	InRange, OutOfRange Function
}

func (r *RangeChoice) Compute(x, y, z float64) float64 {
	v := r.Input.Compute(x, y, z)
	if v >= r.Lo && v < r.Hi {
		return r.InRange.Compute(x, y, z)
	}
	return r.OutOfRange.Compute(x, y, z)
}
func (r *RangeChoice) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(r, positions, out)
}
func (r *RangeChoice) Min() float64 { return minF(r.InRange.Min(), r.OutOfRange.Min()) }
func (r *RangeChoice) Max() float64 { return maxF(r.InRange.Max(), r.OutOfRange.Max()) }
func (r *RangeChoice) TreeHash() uint64 {
	return combineHash(0x52434849434B, r.Input.TreeHash(), floatBits(r.Lo), floatBits(r.Hi), r.InRange.TreeHash(), r.OutOfRange.TreeHash())
}
