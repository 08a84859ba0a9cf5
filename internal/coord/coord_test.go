package coord

import "testing"

func TestPackUnpackChunkRoundTrip(t *testing.T) {
	cases := [][2]int32{{0, 0}, {-1, -1}, {100, -200}, {-32768, 32767}}
	for _, c := range cases {
		p := PackChunk(c[0], c[1])
		x, z := UnpackChunk(p)
		if x != c[0] || z != c[1] {
			t.Fatalf("round trip failed for %v: got (%d,%d)", c, x, z)
		}
	}
}

func TestPackChunkNegativeOneBits(t *testing.T) {
	if got := PackChunk(-1, -1); got != 0xFFFFFFFFFFFFFFFF {
		t.Fatalf("pack_coords((-1,-1)) = %#x, want all-ones", got)
	}
	x, z := UnpackChunk(0xFFFFFFFFFFFFFFFF)
	if x != -1 || z != -1 {
		t.Fatalf("unpack_coords(all-ones) = (%d,%d), want (-1,-1)", x, z)
	}
}

func TestPackUnpackXYZRoundTrip(t *testing.T) {
	cases := [][3]int32{
		{0, 0, 0},
		{-1, -1, -1},
		{1<<25 - 1, 1<<11 - 1, 1<<25 - 1},
		{-(1 << 25), -(1 << 11), -(1 << 25)},
		{123456, -789, -654321},
	}
	for _, c := range cases {
		p := PackXYZ(c[0], c[1], c[2])
		x, y, z := UnpackXYZ(p)
		if x != c[0] || y != c[1] || z != c[2] {
			t.Fatalf("round trip failed for %v: got (%d,%d,%d)", c, x, y, z)
		}
	}
}

func TestChunkToRegionNegative(t *testing.T) {
	cases := []struct {
		cx, cz, rx, rz int32
	}{
		{-32, 0, -1, 0},
		{-33, 0, -2, 0},
		{31, 0, 0, 0},
		{-1, -1, -1, -1},
	}
	for _, c := range cases {
		rx, rz := ChunkToRegion(c.cx, c.cz)
		if rx != c.rx || rz != c.rz {
			t.Fatalf("ChunkToRegion(%d,%d) = (%d,%d), want (%d,%d)", c.cx, c.cz, rx, rz, c.rx, c.rz)
		}
	}
}
