package blockbits

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestBitsForPaletteLen(t *testing.T) {
	cases := map[int]int{1: 4, 2: 4, 15: 4, 16: 4, 17: 5, 256: 8}
	for n, want := range cases {
		if got := BitsForPaletteLen(n); got != want {
			t.Errorf("BitsForPaletteLen(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestPackUnpackNonCrossingRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, bits := range []int{4, 5, 6, 8} {
		max := uint32(1) << uint(bits)
		values := make([]uint32, 4096)
		for i := range values {
			values[i] = uint32(r.Intn(int(max)))
		}
		longs := PackNonCrossing(values, bits)
		got := UnpackNonCrossing(longs, bits, len(values))
		if !reflect.DeepEqual(got, values) {
			t.Fatalf("round trip mismatch at bits=%d", bits)
		}
	}
}

func TestPackUnpackCrossingRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	values := make([]int64, 256)
	for i := range values {
		values[i] = int64(r.Intn(512))
	}
	longs := PackCrossing(values, 9)
	got := UnpackCrossing(longs, 9, len(values))
	if !reflect.DeepEqual(got, values) {
		t.Fatal("crossing round trip mismatch")
	}
}
