package stream

import (
	"encoding/binary"
	"github.com/cespare/xxhash/v2"
)

// DefaultShardCount matches spec §4.5's documented default worker-pool
// size.
const DefaultShardCount = 12

// ShardFor hashes a packed chunk coordinate with xxhash (substituting the
// original's ahash, a Rust-only hasher with no Go equivalent in the
// example corpus) to assign it to one of numShards workers, grounded on
// chunk_system.rs hash_chunk_coord/shard_chunks.
func ShardFor(packedChunk uint64, numShards int) int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], packedChunk)
	h := xxhash.Sum64(buf[:])
	return int(h % uint64(numShards))
}

// ShardChunks groups a set of packed chunk coordinates by destination shard.
func ShardChunks(packed []uint64, numShards int) map[int][]uint64 {
	out := make(map[int][]uint64)
	for _, p := range packed {
		s := ShardFor(p, numShards)
		out[s] = append(out[s], p)
	}
	return out
}
