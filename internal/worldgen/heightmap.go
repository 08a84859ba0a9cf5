package worldgen

// SurfaceHeightmap scans a generated chunk's sections from the top down and
// returns, per column (row-major, z outer then x inner, matching
// internal/blockbits.PackHeightmap's expected layout), the world y just
// above the topmost non-air block. A column with no non-air block anywhere
// in the chunk defaults to the bottom of the lowest section.
//
// The generator's block set is air/stone only (no fluids, no leaves), so
// WORLD_SURFACE and MOTION_BLOCKING are by construction identical; callers
// needing both heightmap types can reuse a single call's result for each.
func (c *Chunk) SurfaceHeightmap(airID uint32) [256]int32 {
	var heights [256]int32
	var found [256]bool
	remaining := 256

	for i := len(c.Sections) - 1; i >= 0 && remaining > 0; i-- {
		sec := c.Sections[i]
		baseY := int32(sec.Y) * 16
		for ly := 15; ly >= 0 && remaining > 0; ly-- {
			worldY := baseY + int32(ly)
			for lz := 0; lz < 16; lz++ {
				for lx := 0; lx < 16; lx++ {
					col := lz*16 + lx
					if found[col] {
						continue
					}
					if blockAt(sec, ly, lz, lx) != airID {
						heights[col] = worldY + 1
						found[col] = true
						remaining--
					}
				}
			}
		}
	}

	if remaining > 0 && len(c.Sections) > 0 {
		bottomY := int32(c.Sections[0].Y) * 16
		for col := 0; col < 256; col++ {
			if !found[col] {
				heights[col] = bottomY
			}
		}
	}
	return heights
}

// blockAt decodes one section's packed palette index at local (lx,ly,lz)
// and resolves it to a global block-state id, mirroring the packed-index
// layout generateSection builds ((ly*16+lz)*16+lx) and
// pkg/protocol.countNonAir's decode.
func blockAt(sec Section, ly, lz, lx int) uint32 {
	if len(sec.Palette) == 0 {
		return 0
	}
	if len(sec.Data) == 0 {
		return sec.Palette[0]
	}
	cellIdx := (ly*16+lz)*16 + lx
	bpe := sec.BitsPerEntry
	perLong := 64 / bpe
	longIdx := cellIdx / perLong
	offset := uint((cellIdx % perLong) * bpe)
	mask := uint64(1)<<uint(bpe) - 1
	idx := (uint64(sec.Data[longIdx]) >> offset) & mask
	if int(idx) >= len(sec.Palette) {
		return sec.Palette[0]
	}
	return sec.Palette[idx]
}
