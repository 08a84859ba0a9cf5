// Package worldgen implements C3: sparse-sampling a density-function tree
// and trilinearly interpolating it into palettized block sections.
// Grounded on
// _examples/original_source/src/server/chunk_system.rs's
// Chunk::generate/generate_chunk_blockstates/trilinear_interpolate.
package worldgen

import (
	"sync"

	"github.com/StoreStation/VibeShitCraft/internal/coord"
)

// validSampleCounts enumerates the sample counts spec §4.3 allows per axis.
var validSampleCounts = map[int]bool{2: true, 3: true, 5: true, 9: true, 17: true}

// SampleSettings describes the sparse sample grid density per axis, per
// spec §4.3 step 2: spacing = 16/(n-1) for the horizontal axes.
type SampleSettings struct {
	XSamples, YSamples, ZSamples int
}

// DefaultSampleSettings is the spec's documented default, 5x3x5 samples per
// section span.
func DefaultSampleSettings() SampleSettings {
	return SampleSettings{XSamples: 5, YSamples: 3, ZSamples: 5}
}

// XSpacing and ZSpacing are the block distances between adjacent samples
// along the horizontal axes.
func (s SampleSettings) XSpacing() int { return 16 / (s.XSamples - 1) }
func (s SampleSettings) ZSpacing() int { return 16 / (s.ZSamples - 1) }

// YSpacingForSections returns the vertical sample spacing in blocks,
// 16/(YSamples-1), the same for every 16-block section; vanilla ties
// vertical sampling to YSamples-per-section.
func (s SampleSettings) YSpacingForSections() int { return 16 / (s.YSamples - 1) }

// Valid reports whether every axis sample count is one of the allowed
// values {2,3,5,9,17}.
func (s SampleSettings) Valid() bool {
	return validSampleCounts[s.XSamples] && validSampleCounts[s.YSamples] && validSampleCounts[s.ZSamples]
}

// SampleCache memoizes density-function evaluations at block-border sample
// points keyed by packed xyz, shared across every chunk generated in one
// batch so two horizontally adjacent chunks agree exactly on their shared
// border samples (spec §4.3 step 3, §8 testable property 9).
type SampleCache struct {
	mu   sync.Mutex
	vals map[uint64]float64
}

// NewSampleCache returns an empty shared cache.
func NewSampleCache() *SampleCache {
	return &SampleCache{vals: make(map[uint64]float64)}
}

// Get returns the cached value at (x,y,z) if present.
func (c *SampleCache) Get(x, y, z int32) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vals[coord.PackXYZ(x, y, z)]
	return v, ok
}

// Put stores a value at (x,y,z), overwriting any previous entry.
func (c *SampleCache) Put(x, y, z int32, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals[coord.PackXYZ(x, y, z)] = v
}

// isBorder reports whether a block-space x/z coordinate falls on a
// chunk-shared border (spec §4.3 step 3: x%16==0 or z%16==0), the
// condition under which a sample is worth writing back to the shared
// cache for the neighboring chunk to reuse.
func isBorder(x, z int32) bool {
	return mod16(x) == 0 || mod16(z) == 0
}

func mod16(v int32) int32 {
	m := v % 16
	if m < 0 {
		m += 16
	}
	return m
}
