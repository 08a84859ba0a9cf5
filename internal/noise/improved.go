// Package noise implements the Improved-Perlin and Vanilla (double-Perlin)
// noise generators used by the density function tree. It is grounded on
// the teacher's pkg/world/noise.go Perlin struct shape (permutation table,
// smoothstep fade curve) generalized onto the Xoroshiro/LCG48-seeded
// permutation and 16-entry SIMPLEX_GRADIENT table the worldgen pipeline
// actually uses.
package noise

import "github.com/StoreStation/VibeShitCraft/internal/rng"

// simplexGradient mirrors the vanilla 16-entry gradient table; indices 12-15
// deliberately duplicate earlier entries rather than forming a clean cycle.
var simplexGradient = [16][3]int8{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
	{1, 1, 0}, {0, -1, 1}, {-1, 1, 0}, {0, -1, -1},
}

const twoPow25 = float64(1 << 25)

// ImprovedNoise is a single octave of seeded gradient noise: a random
// origin offset plus a 256-entry gradient-index permutation.
type ImprovedNoise struct {
	x, y, z  float64
	values   [256]int32
	Disabled bool
}

// NewImprovedNoise builds one octave from a branched random generator: three
// random f64 origin offsets followed by a Fisher-Yates shuffle of the
// identity permutation.
func NewImprovedNoise(r rng.Generator) *ImprovedNoise {
	n := &ImprovedNoise{
		x: r.NextF64() * 256.0,
		y: r.NextF64() * 256.0,
		z: r.NextF64() * 256.0,
	}
	for i := range n.values {
		n.values[i] = int32(i)
	}
	for i := int32(0); i < 256; i++ {
		t := i + r.NextInt32Range(uint32(256-i))
		if t > 255 {
			break
		}
		n.values[i], n.values[t] = n.values[t], n.values[i]
	}
	return n
}

// DisabledImprovedNoise returns a zero-weight octave placeholder for
// amplitude slots the ladder skips.
func DisabledImprovedNoise() *ImprovedNoise {
	return &ImprovedNoise{Disabled: true}
}

func wrap(v float64) float64 {
	return v - floor64(v/twoPow25+0.5)*twoPow25
}

func floor64(v float64) float64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}

// smoothstep is the 6t^5-15t^4+10t^3 fade curve, identical to the teacher's
// fade() in pkg/world/noise.go.
func smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// Sample evaluates the octave at (x,y,z), with the y_offset mechanism used
// by OldBlendedNoise for repeated-y-slice sampling (val1/val2 are both 0 for
// ordinary callers).
func (n *ImprovedNoise) Sample(x, y, z, val1, val2 float64) float64 {
	x += n.x
	y += n.y
	z += n.z
	xFloor := floor64(x)
	yFloor := floor64(y)
	zFloor := floor64(z)
	x -= xFloor
	y -= yFloor
	z -= zFloor

	yOffset := y
	if val1 != 0 {
		val := val2
		if !(val2 >= 0 && val2 < y) {
			val = y
		}
		yOffset = y - val1*floor64(val/val1+1.0e-7)
	}

	return n.samplePlusLerp(int32(xFloor), int32(yFloor), int32(zFloor), x, y, z, yOffset)
}

func (n *ImprovedNoise) idx(i int32) int32 {
	return n.values[i&0xFF] & 0xFF
}

func (n *ImprovedNoise) samplePlusLerp(xFloor, yFloor, zFloor int32, x, y, z, yOffset float64) float64 {
	v1 := n.idx(xFloor)
	v2 := n.idx(xFloor + 1)
	v3 := n.idx(yFloor + v1)
	v4 := n.idx(yFloor + v1 + 1)
	v5 := n.idx(yFloor + v2)
	v6 := n.idx(yFloor + v2 + 1)

	v7 := n.idx(zFloor+v3) & 0xF
	v8 := n.idx(zFloor+v5) & 0xF
	v9 := n.idx(zFloor+v4) & 0xF
	v10 := n.idx(zFloor+v6) & 0xF
	v11 := n.idx(zFloor+v3+1) & 0xF
	v12 := n.idx(zFloor+v5+1) & 0xF
	v13 := n.idx(zFloor+v4+1) & 0xF
	v14 := n.idx(zFloor+v6+1) & 0xF

	dot := func(g [3]int8, x, y, z float64) float64 {
		return float64(g[0])*x + float64(g[1])*y + float64(g[2])*z
	}

	x1 := dot(simplexGradient[v7], x, yOffset, z)
	y1 := dot(simplexGradient[v8], x-1.0, yOffset, z)
	x2 := dot(simplexGradient[v9], x, yOffset-1.0, z)
	y2 := dot(simplexGradient[v10], x-1.0, yOffset-1.0, z)
	x3 := dot(simplexGradient[v11], x, yOffset, z-1.0)
	y3 := dot(simplexGradient[v12], x-1.0, yOffset, z-1.0)
	x4 := dot(simplexGradient[v13], x, yOffset-1.0, z-1.0)
	y4 := dot(simplexGradient[v14], x-1.0, yOffset-1.0, z-1.0)

	return lerp3(smoothstep(x), smoothstep(y), smoothstep(z), x1, y1, x2, y2, x3, y3, x4, y4)
}

// lerp3 is the trilinear blend of the 8 corner gradient dot products.
func lerp3(fx, fy, fz, x1, y1, x2, y2, x3, y3, x4, y4 float64) float64 {
	xy1 := lerp(fx, x1, y1)
	xy2 := lerp(fx, x2, y2)
	xy3 := lerp(fx, x3, y3)
	xy4 := lerp(fx, x4, y4)
	z1 := lerp(fy, xy1, xy2)
	z2 := lerp(fy, xy3, xy4)
	return lerp(fz, z1, z2)
}
