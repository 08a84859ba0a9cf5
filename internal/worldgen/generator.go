package worldgen

import (
	"github.com/StoreStation/VibeShitCraft/internal/blockbits"
	"github.com/StoreStation/VibeShitCraft/internal/density"
)

// Section is one 16-block-tall, palettized slice of a generated chunk, the
// block-side counterpart to spec §3's Section type.
type Section struct {
	Y            int8
	Palette      []uint32 // global block-state ids, local index == position
	Data         []int64  // packed non-crossing indices; nil if single-valued
	BitsPerEntry int
}

// Chunk is one generated 16xheightx16 column, subdivided into sections.
type Chunk struct {
	CX, CZ   int32
	Sections []Section
}

// BlockIDs names the two global block-state ids the generator chooses
// between: spec's C3 rule is "stone if density > threshold else air" (the
// density tree itself, not the generator, encodes all real terrain shape
// via spline-based surface rules in a full vanilla dimension; this
// generator implements the documented fallback rule directly).
type BlockIDs struct {
	Air, Stone uint32
}

// Generator evaluates a density function tree into palettized chunk
// sections via sparse sampling + trilinear interpolation, grounded on
// chunk_system.rs Chunk::generate/generate_chunk_blockstates.
type Generator struct {
	Root      density.Function
	MinY      int32
	Height    int32 // logical_height
	Settings  SampleSettings
	Threshold float64
	Blocks    BlockIDs
}

// sectionRange computes the inclusive section-y range per spec §4.3 step 1:
// round min_y/16 down, max_y/16 up.
func (g *Generator) sectionRange() (minSection, maxSection int32) {
	minSection = floorDiv(g.MinY, 16)
	maxY := g.MinY + g.Height
	maxSection = ceilDiv(maxY, 16)
	return
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
func ceilDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

// Generate builds a full chunk at (cx,cz), consulting and updating cache
// for border samples so adjacent chunks agree exactly (spec §4.3 step 3,
// §8 property 9).
func (g *Generator) Generate(cx, cz int32, cache *SampleCache) *Chunk {
	minSection, maxSection := g.sectionRange()
	minY := minSection * 16
	maxY := maxSection * 16

	grid := g.buildSampleGrid(cx, cz, minY, maxY, cache)

	sections := make([]Section, 0, maxSection-minSection)
	for sy := minSection; sy < maxSection; sy++ {
		sections = append(sections, g.generateSection(cx, cz, sy, minY, grid))
	}
	return &Chunk{CX: cx, CZ: cz, Sections: sections}
}

// sampleGrid holds the sparse 3-D sample lattice for one chunk's full
// section range, plus the geometry needed to index and interpolate it.
type sampleGrid struct {
	xSpacing, ySpacing, zSpacing int
	xCount, yCount, zCount       int
	minY                         int32
	values                       []float64 // flat, y-major then z then x: idx = (iy*zCount+iz)*xCount+ix
}

func (s *sampleGrid) idx(ix, iy, iz int) int {
	return (iy*s.zCount+iz)*s.xCount + ix
}

func (g *Generator) buildSampleGrid(cx, cz int32, minY, maxY int32, cache *SampleCache) *sampleGrid {
	xSpacing := g.Settings.XSpacing()
	zSpacing := g.Settings.ZSpacing()
	ySpacing := g.Settings.YSpacingForSections()

	xCount := 16/xSpacing + 1
	zCount := 16/zSpacing + 1
	yCount := int(maxY-minY)/ySpacing + 1

	grid := &sampleGrid{
		xSpacing: xSpacing, ySpacing: ySpacing, zSpacing: zSpacing,
		xCount: xCount, yCount: yCount, zCount: zCount,
		minY: minY,
		values: make([]float64, xCount*yCount*zCount),
	}

	type pending struct {
		ix, iy, iz int
		x, y, z    int32
		border     bool
	}
	var misses []pending

	baseX := cx * 16
	baseZ := cz * 16

	for iy := 0; iy < yCount; iy++ {
		y := minY + int32(iy*ySpacing)
		for iz := 0; iz < zCount; iz++ {
			z := baseZ + int32(iz*zSpacing)
			for ix := 0; ix < xCount; ix++ {
				x := baseX + int32(ix*xSpacing)
				border := isBorder(x, z)
				if border {
					if v, ok := cache.Get(x, y, z); ok {
						grid.values[grid.idx(ix, iy, iz)] = v
						continue
					}
				}
				misses = append(misses, pending{ix, iy, iz, x, y, z, border})
			}
		}
	}

	if len(misses) > 0 {
		positions := make([]density.Pos, len(misses))
		for i, m := range misses {
			positions[i] = density.Pos{X: m.x, Y: m.y, Z: m.z}
		}
		out := make([]float64, len(misses))
		g.Root.ComputeSlice(positions, out)
		for i, m := range misses {
			grid.values[grid.idx(m.ix, m.iy, m.iz)] = out[i]
			if m.border {
				cache.Put(m.x, m.y, m.z, out[i])
			}
		}
	}

	return grid
}

func (g *Generator) generateSection(cx, cz, sy int32, minY int32, grid *sampleGrid) Section {
	palette := make([]uint32, 0, 16)
	paletteMap := make(map[uint32]int, 16)
	indices := make([]uint32, 4096)

	localIndex := func(id uint32) int {
		if idx, ok := paletteMap[id]; ok {
			return idx
		}
		idx := len(palette)
		palette = append(palette, id)
		paletteMap[id] = idx
		return idx
	}

	sectionBaseY := sy * 16
	for ly := 0; ly < 16; ly++ {
		worldY := sectionBaseY + int32(ly)
		for lz := 0; lz < 16; lz++ {
			for lx := 0; lx < 16; lx++ {
				d := g.interpolate(grid, minY, lx, int(worldY), lz)
				id := g.Blocks.Air
				if d > g.Threshold {
					id = g.Blocks.Stone
				}
				cellIdx := (ly*16+lz)*16 + lx
				indices[cellIdx] = uint32(localIndex(id))
			}
		}
	}

	if len(palette) == 1 {
		return Section{Y: int8(sy), Palette: palette}
	}
	bits := blockbits.BitsForPaletteLen(len(palette))
	return Section{
		Y:            int8(sy),
		Palette:      palette,
		Data:         blockbits.PackNonCrossing(indices, bits),
		BitsPerEntry: bits,
	}
}

// interpolate trilinearly interpolates the density at a block position from
// the 8 surrounding sparse samples, with the top-y neighbor clamped per
// spec's Open Question generalization
// (min(sample_y+1, num_y_samples*sections-1) rather than the Rust
// original's hardcoded clamp(0,47)).
func (g *Generator) interpolate(grid *sampleGrid, minY int32, lx, worldY, lz int) float64 {
	xs := grid.xSpacing
	zs := grid.zSpacing
	ys := grid.ySpacing

	ix0 := lx / xs
	iz0 := lz / zs
	iy0 := (worldY - int(minY)) / ys

	fx := float64(lx%xs) / float64(xs)
	fz := float64(lz%zs) / float64(zs)
	fy := float64((worldY-int(minY))%ys) / float64(ys)

	ix1 := ix0 + 1
	iz1 := iz0 + 1
	iy1 := iy0 + 1
	maxIy := grid.yCount - 1
	if iy1 > maxIy {
		iy1 = maxIy
	}
	if ix1 > grid.xCount-1 {
		ix1 = grid.xCount - 1
	}
	if iz1 > grid.zCount-1 {
		iz1 = grid.zCount - 1
	}

	v000 := grid.values[grid.idx(ix0, iy0, iz0)]
	v100 := grid.values[grid.idx(ix1, iy0, iz0)]
	v010 := grid.values[grid.idx(ix0, iy1, iz0)]
	v110 := grid.values[grid.idx(ix1, iy1, iz0)]
	v001 := grid.values[grid.idx(ix0, iy0, iz1)]
	v101 := grid.values[grid.idx(ix1, iy0, iz1)]
	v011 := grid.values[grid.idx(ix0, iy1, iz1)]
	v111 := grid.values[grid.idx(ix1, iy1, iz1)]

	return lerp3(fx, fy, fz, v000, v100, v010, v110, v001, v101, v011, v111)
}

func lerp3(fx, fy, fz, v000, v100, v010, v110, v001, v101, v011, v111 float64) float64 {
	x00 := lerp(fx, v000, v100)
	x10 := lerp(fx, v010, v110)
	x01 := lerp(fx, v001, v101)
	x11 := lerp(fx, v011, v111)
	y0 := lerp(fy, x00, x10)
	y1 := lerp(fy, x01, x11)
	return lerp(fz, y0, y1)
}

func lerp(t, a, b float64) float64 { return a + t*(b-a) }
