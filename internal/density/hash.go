package density

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// combineHash folds a node-kind tag and its children's hashes into a single
// structural hash, used as the tree_hash cache key described in spec §4.2.
func combineHash(kind uint64, parts ...uint64) uint64 {
	var buf [8]byte
	d := xxhash.New()
	binary.LittleEndian.PutUint64(buf[:], kind)
	d.Write(buf[:])
	for _, p := range parts {
		binary.LittleEndian.PutUint64(buf[:], p)
		d.Write(buf[:])
	}
	return d.Sum64()
}

func hashFloat(kind uint64, v float64) uint64 {
	return combineHash(kind, math.Float64bits(v))
}

func hashString(kind uint64, s string) uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], kind)
	d.Write(buf[:])
	d.Write([]byte(s))
	return d.Sum64()
}
