// Package rng implements the seeded random generators used by the noise and
// density-function layers: Xoroshiro128++ for modern worlds and LCG48 for
// legacy ones.
package rng

import (
	"crypto/md5"
	"encoding/binary"
	"math/bits"
)

// degenerate state substituted whenever mix_stafford13 would otherwise
// produce an all-zero state (xoroshiro cannot recover from (0,0)).
var (
	degenerateLo int64 = -7046029254386353131
	degenerateHi int64 = 7640891576956012809
)

// Xoroshiro is a Xoroshiro128++ generator, seeded and branched the way the
// modern (post-1.18) worldgen random source is.
type Xoroshiro struct {
	lo, hi uint64
}

// NewXoroshiro seeds a generator from a single 64-bit world/feature seed.
func NewXoroshiro(seed int64) *Xoroshiro {
	lo := mixStafford13(uint64(seed))
	hi := mixStafford13(uint64(seed - 7046029254386353131))
	if lo == 0 && hi == 0 {
		lo, hi = uint64(degenerateLo), uint64(degenerateHi)
	}
	return &Xoroshiro{lo: lo, hi: hi}
}

func newXoroshiroRaw(lo, hi uint64) *Xoroshiro {
	if lo == 0 && hi == 0 {
		lo, hi = uint64(degenerateLo), uint64(degenerateHi)
	}
	return &Xoroshiro{lo: lo, hi: hi}
}

// mixStafford13 is David Stafford's variant 13 64-bit finalizer, the same
// mixer splitmix64-family generators use to seed xoroshiro state words.
func mixStafford13(v uint64) uint64 {
	v = (v ^ (v >> 30)) * 0xbf58476d1ce4e5b9
	v = (v ^ (v >> 27)) * 0x94d049bb133111eb
	return v ^ (v >> 31)
}

// NextInt64 advances the generator and returns the next raw 64-bit value.
func (x *Xoroshiro) NextInt64() int64 {
	s0, s1 := x.lo, x.hi
	result := bits.RotateLeft64(s0+s1, 17) + s0
	s1 ^= s0
	x.lo = bits.RotateLeft64(s0, 49) ^ s1 ^ (s1 << 21)
	x.hi = bits.RotateLeft64(s1, 28)
	return int64(result)
}

// NextInt32 returns the low 32 bits of the next 64-bit draw.
func (x *Xoroshiro) NextInt32() int32 {
	return int32(x.NextInt64())
}

// NextInt32Range returns a uniform value in [0, bound) using Lemire's
// multiply-and-reject method: draw a 32-bit value, multiply by bound into a
// 64-bit product, and reject on the product's low word against a rejection
// threshold to avoid modulo bias. The high word of the accepted product is
// the result.
func (x *Xoroshiro) NextInt32Range(bound uint32) int32 {
	r := uint32(x.NextInt32())
	m := uint64(r) * uint64(bound)
	l := uint32(m)
	if l < bound {
		threshold := (-bound) % bound
		for l < threshold {
			r = uint32(x.NextInt32())
			m = uint64(r) * uint64(bound)
			l = uint32(m)
		}
	}
	return int32(m >> 32)
}

// NextF64 returns a uniform double in [0,1).
func (x *Xoroshiro) NextF64() float64 {
	top53 := uint64(x.NextInt64()) >> 11
	return float64(top53) * float64(float32(1.110223e-16))
}

// Skip discards n draws, used by legacy octave construction to keep RNG
// position in sync with amplitude slots that have zero weight.
func (x *Xoroshiro) Skip(n int) {
	for i := 0; i < n; i++ {
		x.NextInt64()
	}
}

// Branch derives a fresh, independent child generator.
func (x *Xoroshiro) Branch() *Xoroshiro {
	return newXoroshiroRaw(uint64(x.NextInt64()), uint64(x.NextInt64()))
}

// XoroshiroPositional derives per-coordinate or per-name child generators
// from a fixed parent state without mutating the parent.
type XoroshiroPositional struct {
	lo, hi uint64
}

// BranchPositional captures the current state as a positional seed source.
func (x *Xoroshiro) BranchPositional() *XoroshiroPositional {
	return &XoroshiroPositional{lo: x.lo, hi: x.hi}
}

// FromPos derives a child generator seeded by an integer coordinate.
func (p *XoroshiroPositional) FromPos(x, y, z int32) *Xoroshiro {
	posHash := int64(x)*3129871 ^ int64(z)*116129781 ^ int64(y)
	posHash = posHash*posHash*42317861 + posHash*11
	mixed := posHash >> 16
	return newXoroshiroRaw(p.lo^uint64(mixed), p.hi)
}

// HashToRand derives a child generator seeded by the MD5 digest of a string.
func (p *XoroshiroPositional) HashToRand(s string) *Xoroshiro {
	sum := md5.Sum([]byte(s))
	loPart := binary.BigEndian.Uint64(sum[0:8])
	hiPart := binary.BigEndian.Uint64(sum[8:16])
	return newXoroshiroRaw(p.lo^loPart, p.hi^hiPart)
}
