package stream

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/StoreStation/VibeShitCraft/internal/coord"
	"github.com/StoreStation/VibeShitCraft/internal/region"
	"github.com/StoreStation/VibeShitCraft/internal/worldgen"
)

const maxBatchPerConsume = 100

// permitCapacity matches spec §4.5's per-worker semaphore caps: 2 for I/O,
// 2 for generation sub-tasks.
const permitCapacity = 2

// RegionSource is the subset of internal/region's Manager the orchestrator
// needs, narrowed to an interface so shard workers are testable without a
// real region cache on disk.
type RegionSource interface {
	GetRegionChunks(dim int32, regionCoord uint64, relIdx []int) ([]*region.LoadedChunk, []int)
}

// ChunkEncoder builds the wire-ready packets a shard worker sends, kept as
// an interface so internal/stream doesn't need to import pkg/protocol
// directly and can be exercised with a fake in tests.
type ChunkEncoder interface {
	EncodeChunkData(chunk *worldgen.Chunk, biomes []worldgen.BiomeSection) []byte
	EncodeLoadedChunkData(lc *region.LoadedChunk) []byte
	EncodeUnload(cx, cz int32) []byte
	EncodeSetCenter(cx, cz int32) []byte
	EncodeBundleDelimiter() []byte
}

// Generator produces a missing chunk's sections, sharing a sample cache
// across a batch for cross-chunk border continuity (spec §4.3 step 3).
type Generator interface {
	Generate(cx, cz int32, cache *worldgen.SampleCache) *worldgen.Chunk
}

// chunkLoad tracks one chunk generation in progress, letting concurrent
// requests for the same coordinate (e.g. two nearby players' view diffs
// landing in the same wakeup) await a single generation instead of
// duplicating the work, grounded on chunk_system.rs's
// ChunkLoad{view_count, load_notify}.
type chunkLoad struct {
	done   chan struct{}
	packet []byte
}

// Shard owns one worker's independent region/generation state and runs its
// event loop in its own goroutine, per spec §4.5: "a fixed pool of
// N_shards worker tasks, each owning its own LudiChunkLoader".
type Shard struct {
	id      int
	queue   *eventQueue
	regions RegionSource
	gen     Generator
	encoder ChunkEncoder
	biomes  *worldgen.BiomeGenerator
	ioSem   *semaphore.Weighted
	genSem  *semaphore.Weighted

	mu       sync.Mutex
	inFlight map[uint64]*chunkLoad
}

func newShard(id int, regions RegionSource, gen Generator, encoder ChunkEncoder, biomes *worldgen.BiomeGenerator) *Shard {
	return &Shard{
		id:       id,
		queue:    newEventQueue(),
		regions:  regions,
		gen:      gen,
		encoder:  encoder,
		biomes:   biomes,
		ioSem:    semaphore.NewWeighted(permitCapacity),
		genSem:   semaphore.NewWeighted(permitCapacity),
		inFlight: make(map[uint64]*chunkLoad),
	}
}

// claimOrAwait registers the caller as the owner responsible for generating
// packed (owner=true, must call finish when done), or hands back the
// chunkLoad of a generation already in progress for that coordinate
// (owner=false; wait on cl.done then read cl.packet).
func (s *Shard) claimOrAwait(packed uint64) (cl *chunkLoad, owner bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.inFlight[packed]; ok {
		return existing, false
	}
	cl = &chunkLoad{done: make(chan struct{})}
	s.inFlight[packed] = cl
	return cl, true
}

// finish publishes the generated packet to anyone awaiting this coordinate
// and clears the in-flight entry; a later request for the same coordinate
// regenerates rather than reusing a stale packet, since the shard keeps no
// standing chunk cache beyond the duration of the generation itself.
func (s *Shard) finish(packed uint64, cl *chunkLoad, packet []byte) {
	cl.packet = packet
	close(cl.done)
	s.mu.Lock()
	delete(s.inFlight, packed)
	s.mu.Unlock()
}

// Run drains the shard's queue until Close, processing up to
// maxBatchPerConsume tasks per wakeup. Tasks within a batch run
// concurrently (bounded by ioSem/genSem) so that overlapping requests for
// the same chunk coordinate can coalesce via claimOrAwait.
func (s *Shard) Run(ctx context.Context) {
	for {
		batch, ok := s.queue.PopBatch(maxBatchPerConsume)
		if !ok {
			return
		}
		var wg sync.WaitGroup
		for _, task := range batch {
			task := task
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.handleTask(ctx, task)
			}()
		}
		wg.Wait()
	}
}

// handleTask implements spec §4.5's per-task pipeline: group by region,
// acquire I/O permit, send unloads, query region cache, assemble+send found
// chunks, and spawn a generation sub-task for misses.
func (s *Shard) handleTask(ctx context.Context, task ChunkLoadTask) {
	conn, ok := task.Player.Upgrade()
	if !ok {
		// Backpressure: the player's connection is already gone.
		return
	}

	byRegion := make(map[uint64][]int)
	chunkByIdx := make(map[uint64]map[int]uint64)
	for _, packed := range task.Loads {
		cx, cz := coord.UnpackChunk(packed)
		rx, rz := coord.ChunkToRegion(cx, cz)
		regionCoord := coord.PackChunk(rx, rz)
		relX, relZ := coord.ChunkToRegionRelative(cx, cz)
		idx := int(relZ)*32 + int(relX)
		byRegion[regionCoord] = append(byRegion[regionCoord], idx)
		if chunkByIdx[regionCoord] == nil {
			chunkByIdx[regionCoord] = make(map[int]uint64)
		}
		chunkByIdx[regionCoord][idx] = packed
	}

	if err := s.ioSem.Acquire(ctx, 1); err != nil {
		return
	}
	for _, packed := range task.Unloads {
		cx, cz := coord.UnpackChunk(packed)
		conn.SendLow(s.encoder.EncodeUnload(cx, cz))
	}
	var missing []uint64
	var found []*region.LoadedChunk
	for regionCoord, indices := range byRegion {
		foundChunks, missingIdx := s.regions.GetRegionChunks(task.Player.Dim, regionCoord, indices)
		found = append(found, foundChunks...)
		for _, idx := range missingIdx {
			missing = append(missing, chunkByIdx[regionCoord][idx])
		}
	}
	s.ioSem.Release(1)

	if len(found) > 0 {
		conn.SendLow(s.encoder.EncodeBundleDelimiter())
		for _, lc := range found {
			conn.SendLow(s.encoder.EncodeLoadedChunkData(lc))
		}
		conn.SendLow(s.encoder.EncodeBundleDelimiter())
	}

	if len(missing) == 0 {
		return
	}

	if err := s.genSem.Acquire(ctx, 1); err != nil {
		return
	}
	defer s.genSem.Release(1)

	conn, ok = task.Player.Upgrade()
	if !ok {
		return
	}

	cache := worldgen.NewSampleCache()
	generated := make([][]byte, len(missing))
	group, gctx := errgroup.WithContext(ctx)
	for i, packed := range missing {
		i, packed := i, packed
		group.Go(func() error {
			cl, owner := s.claimOrAwait(packed)
			if !owner {
				select {
				case <-cl.done:
					generated[i] = cl.packet
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if gctx.Err() != nil {
				s.finish(packed, cl, nil)
				return gctx.Err()
			}
			cx, cz := coord.UnpackChunk(packed)
			chunk := s.gen.Generate(cx, cz, cache)
			biomes := s.biomes.Generate(len(chunk.Sections))
			pkt := s.encoder.EncodeChunkData(chunk, biomes)
			generated[i] = pkt
			s.finish(packed, cl, pkt)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		log.Warn().Err(err).Msg("chunk generation sub-task failed")
		return
	}

	conn.SendLow(s.encoder.EncodeBundleDelimiter())
	for _, pkt := range generated {
		conn.SendLow(pkt)
	}
	conn.SendLow(s.encoder.EncodeBundleDelimiter())
}

// Orchestrator is the fixed pool of shards spec §4.5 describes, routing
// each player's load/unload sets to the shard(s) owning those chunks.
type Orchestrator struct {
	shards []*Shard
}

// NewOrchestrator builds numShards independent shard workers sharing the
// given region/generator/encoder backends, and starts their goroutines.
func NewOrchestrator(ctx context.Context, numShards int, regions RegionSource, gen Generator, encoder ChunkEncoder, biomes *worldgen.BiomeGenerator) *Orchestrator {
	o := &Orchestrator{shards: make([]*Shard, numShards)}
	for i := range o.shards {
		o.shards[i] = newShard(i, regions, gen, encoder, biomes)
		go o.shards[i].Run(ctx)
	}
	log.Info().Int("shards", numShards).Msg("chunk streaming orchestrator started")
	return o
}

// Dispatch applies a player's viewport diff: sends SetCenterChunk first
// when the center moved (spec §4.5's set-center invariant), then routes
// loads/unloads into their owning shards' queues.
func (o *Orchestrator) Dispatch(player *PlayerHandle, centerChanged bool, newCX, newCZ int32, loads, unloads []uint64) {
	if centerChanged {
		if conn, ok := player.Upgrade(); ok {
			conn.SendLow(o.encoderOf().EncodeSetCenter(newCX, newCZ))
		}
	}

	byShard := make(map[int]*ChunkLoadTask)
	get := func(shard int) *ChunkLoadTask {
		if t, ok := byShard[shard]; ok {
			return t
		}
		t := &ChunkLoadTask{Player: player}
		byShard[shard] = t
		return t
	}
	for _, l := range loads {
		t := get(ShardFor(l, len(o.shards)))
		t.Loads = append(t.Loads, l)
	}
	for _, u := range unloads {
		t := get(ShardFor(u, len(o.shards)))
		t.Unloads = append(t.Unloads, u)
	}
	for shard, t := range byShard {
		o.shards[shard].queue.Push(*t)
	}
}

func (o *Orchestrator) encoderOf() ChunkEncoder { return o.shards[0].encoder }

// Close shuts down every shard's queue, letting in-flight batches drain.
func (o *Orchestrator) Close() {
	for _, s := range o.shards {
		s.queue.Close()
	}
}
