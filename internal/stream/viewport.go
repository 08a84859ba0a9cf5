package stream

import "github.com/StoreStation/VibeShitCraft/internal/coord"

// Viewport computes the (2r+1)^2 square of chunk coordinates centered on
// (cx,cz) with radius r, grounded on spec §4.5's viewport definition.
func Viewport(cx, cz, r int32) map[uint64]struct{} {
	out := make(map[uint64]struct{}, (2*r+1)*(2*r+1))
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			out[coord.PackChunk(cx+dx, cz+dz)] = struct{}{}
		}
	}
	return out
}

// Diff computes loads = next \ prev and unloads = prev \ next, the set
// algebra spec §4.5 requires on every player-position update.
func Diff(prev, next map[uint64]struct{}) (loads, unloads []uint64) {
	for k := range next {
		if _, ok := prev[k]; !ok {
			loads = append(loads, k)
		}
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			unloads = append(unloads, k)
		}
	}
	return
}
