package density

// Interpolated, CacheOnce, FlatCache and Cache2D are semantically
// transparent per spec §4.2: the chunk generator's sparse-sample +
// trilinear-interpolation pass already provides the caching/interpolation
// behavior these variants describe in vanilla, so here they simply forward
// to their wrapped input. They remain distinct node types (rather than
// being collapsed at parse time) so tree_hash and Min/Max still see the
// original tree shape, and so a future generator that samples at full
// resolution (bypassing the sparse grid) has a place to hang real
// per-node caching later.

type Interpolated struct{ In Function }

func (i *Interpolated) Compute(x, y, z float64) float64 { return i.In.Compute(x, y, z) }
func (i *Interpolated) ComputeSlice(positions []Pos, out []float64) {
	i.In.ComputeSlice(positions, out)
}
func (i *Interpolated) Min() float64     { return i.In.Min() }
func (i *Interpolated) Max() float64     { return i.In.Max() }
func (i *Interpolated) TreeHash() uint64 { return combineHash(0x494E5450, i.In.TreeHash()) }

type CacheOnce struct{ In Function }

func (c *CacheOnce) Compute(x, y, z float64) float64 { return c.In.Compute(x, y, z) }
func (c *CacheOnce) ComputeSlice(positions []Pos, out []float64) {
	c.In.ComputeSlice(positions, out)
}
func (c *CacheOnce) Min() float64     { return c.In.Min() }
func (c *CacheOnce) Max() float64     { return c.In.Max() }
func (c *CacheOnce) TreeHash() uint64 { return combineHash(0x4341434831, c.In.TreeHash()) }

type FlatCache struct{ In Function }

func (f *FlatCache) Compute(x, y, z float64) float64 { return f.In.Compute(x, y, z) }
func (f *FlatCache) ComputeSlice(positions []Pos, out []float64) {
	f.In.ComputeSlice(positions, out)
}
func (f *FlatCache) Min() float64     { return f.In.Min() }
func (f *FlatCache) Max() float64     { return f.In.Max() }
func (f *FlatCache) TreeHash() uint64 { return combineHash(0x464C4154, f.In.TreeHash()) }

type Cache2D struct{ In Function }

func (c *Cache2D) Compute(x, y, z float64) float64 { return c.In.Compute(x, y, z) }
func (c *Cache2D) ComputeSlice(positions []Pos, out []float64) {
	c.In.ComputeSlice(positions, out)
}
func (c *Cache2D) Min() float64     { return c.In.Min() }
func (c *Cache2D) Max() float64     { return c.In.Max() }
func (c *Cache2D) TreeHash() uint64 { return combineHash(0x43414332, c.In.TreeHash()) }

// BlendOffset, BlendAlpha and EndIslands are stubbed per spec Non-goals:
// world-blending and end-island shaping are out of scope, so these always
// evaluate to the constants vanilla uses when no blend data is present.
type BlendOffset struct{}

func (BlendOffset) Compute(x, y, z float64) float64            { return 0 }
func (BlendOffset) ComputeSlice(positions []Pos, out []float64) {
	for i := range out {
		out[i] = 0
	}
}
func (BlendOffset) Min() float64     { return 0 }
func (BlendOffset) Max() float64     { return 0 }
func (BlendOffset) TreeHash() uint64 { return 0x424C4E444F4646 }

type BlendAlpha struct{}

func (BlendAlpha) Compute(x, y, z float64) float64 { return 1 }
func (BlendAlpha) ComputeSlice(positions []Pos, out []float64) {
	for i := range out {
		out[i] = 1
	}
}
func (BlendAlpha) Min() float64     { return 1 }
func (BlendAlpha) Max() float64     { return 1 }
func (BlendAlpha) TreeHash() uint64 { return 0x424C4E44414C50 }

type EndIslands struct{}

func (EndIslands) Compute(x, y, z float64) float64 { return 1 }
func (EndIslands) ComputeSlice(positions []Pos, out []float64) {
	for i := range out {
		out[i] = 1
	}
}
func (EndIslands) Min() float64     { return 1 }
func (EndIslands) Max() float64     { return 1 }
func (EndIslands) TreeHash() uint64 { return 0x454E4449534C4E44 }

// BlendDensity implements alpha*inner + offset*(1-alpha) explicitly, even
// though Alpha/Offset are currently always the stub constants above (making
// this effectively transparent today); the explicit formula is kept so that
// wiring in real blend data later is a matter of swapping the Alpha/Offset
// nodes, not rewriting this type.
type BlendDensity struct {
	Inner, Alpha, Offset Function
}

func (b *BlendDensity) Compute(x, y, z float64) float64 {
	inner := b.Inner.Compute(x, y, z)
	alpha := b.Alpha.Compute(x, y, z)
	offset := b.Offset.Compute(x, y, z)
	return alpha*inner + offset*(1-alpha)
}
func (b *BlendDensity) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(b, positions, out)
}
func (b *BlendDensity) Min() float64 { return b.Inner.Min() }
func (b *BlendDensity) Max() float64 { return b.Inner.Max() }
func (b *BlendDensity) TreeHash() uint64 {
	return combineHash(0x424C4E44444E53, b.Inner.TreeHash(), b.Alpha.TreeHash(), b.Offset.TreeHash())
}
