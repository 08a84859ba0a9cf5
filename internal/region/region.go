// Package region implements C4: an LRU-cached reader for Anvil .mca region
// files, extracting already-generated chunks' block/biome sections and
// heightmaps. Grounded on full read of
// _examples/original_source/src/server/region.rs (RegionManager,
// CachedRegion, RegionKey, get_region_chunks, remove_lru,
// spawn_stale_checker, calc_curr_time).
package region

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/oriumgames/nbt"
	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog/log"

	"github.com/StoreStation/VibeShitCraft/internal/blockbits"
	"github.com/StoreStation/VibeShitCraft/internal/blockstate"
	"github.com/StoreStation/VibeShitCraft/internal/coord"
	"github.com/StoreStation/VibeShitCraft/internal/worldgen"
)

// Key identifies a cached region by dimension and packed region coordinate,
// mirroring region.rs's RegionKey (dim, coord) pair.
type Key struct {
	Dim   int32
	Coord uint64
}

// LoadedChunk is an already-generated chunk read back out of a region file,
// normalized into the same Section/BiomeSection shapes the C3 generator
// produces so C6 can serialize either uniformly.
type LoadedChunk struct {
	CX, CZ     int32
	Sections   []worldgen.Section
	Biomes     []worldgen.BiomeSection
	Heightmaps map[string][]int64
}

// cachedRegion holds one fully-read .mca file plus its in_use/last_use
// atomics, matching region.rs's CachedRegion contract exactly: eviction is
// only permitted while in_use == 0.
type cachedRegion struct {
	data    []byte
	inUse   atomic.Int64
	lastUse atomic.Uint64
}

// Manager is the region cache: a bounded map of cachedRegion entries keyed
// by (dim, region coord), evicting the least-recently-used unpinned entry
// when at capacity. capacity MUST exceed the number of concurrent shards
// (spec §4.4) or every slot can end up pinned, deadlocking new region
// loads.
type Manager struct {
	levelDir  string
	capacity  int
	startTime time.Time
	tables    *blockstate.Tables

	mu    sync.RWMutex
	cache map[Key]*cachedRegion
}

// Tables bundles the block/biome id tables the region reader needs to
// canonicalize NBT block states back into global ids.
type Tables = blockstate.Tables

// NewManager opens a region cache rooted at levelDir (the world save
// directory containing a "region/" subfolder), with the given bounded
// capacity.
func NewManager(levelDir string, capacity int, tables *Tables) *Manager {
	return &Manager{
		levelDir:  levelDir,
		capacity:  capacity,
		startTime: time.Now(),
		tables:    tables,
		cache:     make(map[Key]*cachedRegion),
	}
}

func (m *Manager) currTime() uint64 {
	return uint64(time.Since(m.startTime).Seconds())
}

// GetRegionChunks fetches the requested chunks (by region-relative flat
// index, 0..1023) from the region at (dim, regionCoord), returning the
// chunks found and the relative indices that were absent or unparseable.
func (m *Manager) GetRegionChunks(dim int32, regionCoord uint64, relIdx []int) ([]*LoadedChunk, []int) {
	key := Key{Dim: dim, Coord: regionCoord}

	region, ok := m.acquire(key)
	if !ok {
		return nil, relIdx
	}
	defer region.inUse.Add(-1)

	var found []*LoadedChunk
	var missing []int
	for _, idx := range relIdx {
		c, err := m.parseChunk(region.data, idx)
		if err != nil {
			missing = append(missing, idx)
			continue
		}
		found = append(found, c)
	}
	return found, missing
}

func (m *Manager) acquire(key Key) (*cachedRegion, bool) {
	m.mu.RLock()
	if r, ok := m.cache[key]; ok {
		r.inUse.Add(1)
		r.lastUse.Store(m.currTime())
		m.mu.RUnlock()
		return r, true
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.cache[key]; ok {
		r.inUse.Add(1)
		r.lastUse.Store(m.currTime())
		return r, true
	}

	if len(m.cache) >= m.capacity {
		m.evictLRULocked()
	}

	rx, rz := coord.UnpackChunk(key.Coord)
	path := fmt.Sprintf("%s/region/r.%d.%d.mca", m.levelDir, rx, rz)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	r := &cachedRegion{data: data}
	r.inUse.Store(1)
	r.lastUse.Store(m.currTime())
	m.cache[key] = r
	return r, true
}

// evictLRULocked removes the least-recently-used entry with inUse==0.
// Caller must hold m.mu for writing. Returns false if nothing is evictable.
func (m *Manager) evictLRULocked() bool {
	var victim Key
	var oldest uint64
	found := false
	for k, r := range m.cache {
		if r.inUse.Load() != 0 {
			continue
		}
		lu := r.lastUse.Load()
		if !found || lu < oldest {
			victim, oldest, found = k, lu, true
		}
	}
	if !found {
		return false
	}
	delete(m.cache, victim)
	return true
}

// StaleSweepInterval matches region.rs's 30-second sweep cadence.
const StaleSweepInterval = 30 * time.Second

// staleTTL matches region.rs's 60-second retention floor for unused
// entries.
const staleTTL = 60

// RunStaleSweeper blocks, periodically evicting cache entries that are both
// unpinned and older than staleTTL, then trimming down to capacity if still
// over. Intended to run in its own goroutine for the Manager's lifetime.
func (m *Manager) RunStaleSweeper(stop <-chan struct{}) {
	ticker := time.NewTicker(StaleSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.sweepOnce()
		}
	}
}

func (m *Manager) sweepOnce() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.currTime()
	for k, r := range m.cache {
		if r.inUse.Load() == 0 && now-r.lastUse.Load() > staleTTL {
			delete(m.cache, k)
		}
	}
	for len(m.cache) > m.capacity {
		if !m.evictLRULocked() {
			break
		}
	}
	log.Debug().Int("cached_regions", len(m.cache)).Msg("region cache stale sweep")
}

// parseChunk extracts and decompresses chunk idx's payload from a region
// file's raw bytes, then decodes the NBT document, grounded on
// region.rs get_region_chunks's location-header/compression-tag handling.
func (m *Manager) parseChunk(data []byte, idx int) (*LoadedChunk, error) {
	locOff := idx * 4
	if locOff+4 > len(data) {
		return nil, fmt.Errorf("region: chunk %d location header out of range", idx)
	}
	loc := data[locOff : locOff+4]
	offset := int(loc[0])<<16 | int(loc[1])<<8 | int(loc[2])
	sectorCount := int(loc[3])
	if offset == 0 || sectorCount == 0 {
		return nil, fmt.Errorf("region: chunk %d not present", idx)
	}

	start := offset * 4096
	if start+5 > len(data) {
		return nil, fmt.Errorf("region: chunk %d payload out of range", idx)
	}
	length := int(data[start])<<24 | int(data[start+1])<<16 | int(data[start+2])<<8 | int(data[start+3])
	compressionTag := data[start+4]
	payloadStart := start + 5
	if length < 1 || payloadStart+length-1 > len(data) {
		return nil, fmt.Errorf("region: chunk %d length out of range", idx)
	}
	raw := data[payloadStart : payloadStart+length-1]

	decompressed, err := decompress(raw, compressionTag)
	if err != nil {
		return nil, fmt.Errorf("region: chunk %d: %w", idx, err)
	}

	var nc nbtChunk
	if err := nbt.NewDecoder(bytes.NewReader(decompressed)).Decode(&nc); err != nil {
		return nil, fmt.Errorf("region: chunk %d nbt decode: %w", idx, err)
	}
	if nc.Heightmaps.WorldSurface == nil {
		return nil, fmt.Errorf("region: chunk %d has no world_surface heightmap (not fully generated)", idx)
	}

	return m.toLoadedChunk(&nc), nil
}

func decompress(raw []byte, tag byte) ([]byte, error) {
	switch tag {
	case 1:
		r, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return readAll(r)
	case 2:
		r, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return readAll(r)
	case 3:
		return raw, nil
	case 4:
		r := lz4.NewReader(bytes.NewReader(raw))
		return readAll(r)
	default:
		return nil, fmt.Errorf("region: unknown compression tag %d", tag)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil && !errors.Is(err, io.EOF) {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}

func (m *Manager) toLoadedChunk(nc *nbtChunk) *LoadedChunk {
	lc := &LoadedChunk{
		CX:         nc.XPos,
		CZ:         nc.ZPos,
		Sections:   make([]worldgen.Section, 0, len(nc.Sections)),
		Biomes:     make([]worldgen.BiomeSection, 0, len(nc.Sections)),
		Heightmaps: make(map[string][]int64, 4),
	}

	for _, s := range nc.Sections {
		lc.Sections = append(lc.Sections, m.convertBlockSection(s))
		lc.Biomes = append(lc.Biomes, m.convertBiomeSection(s))
	}

	if nc.Heightmaps.WorldSurface != nil {
		lc.Heightmaps["WORLD_SURFACE"] = nc.Heightmaps.WorldSurface
	}
	if nc.Heightmaps.OceanFloor != nil {
		lc.Heightmaps["OCEAN_FLOOR"] = nc.Heightmaps.OceanFloor
	}
	if nc.Heightmaps.MotionBlocking != nil {
		lc.Heightmaps["MOTION_BLOCKING"] = nc.Heightmaps.MotionBlocking
	}
	if nc.Heightmaps.MotionBlockingNoLeaves != nil {
		lc.Heightmaps["MOTION_BLOCKING_NO_LEAVES"] = nc.Heightmaps.MotionBlockingNoLeaves
	}
	return lc
}

func (m *Manager) convertBlockSection(s nbtSection) worldgen.Section {
	ids := make([]uint32, len(s.BlockStates.Palette))
	for i, bs := range s.BlockStates.Palette {
		canon := blockstate.CanonicalizeBlockstate(bs.Name, bs.Properties)
		if id, ok := m.tables.Block.ID(canon); ok {
			ids[i] = id
		}
	}
	sec := worldgen.Section{Y: s.Y, Palette: ids}
	if len(ids) > 1 && len(s.BlockStates.Data) > 0 {
		bits := blockbits.BitsForPaletteLen(len(ids))
		sec.Data = s.BlockStates.Data
		sec.BitsPerEntry = bits
	}
	return sec
}

func (m *Manager) convertBiomeSection(s nbtSection) worldgen.BiomeSection {
	ids := make([]uint32, len(s.Biomes.Palette))
	for i, name := range s.Biomes.Palette {
		canon := blockstate.CanonicalizeBlockstate(name, nil)
		if id, ok := m.tables.Biome.ID(canon); ok {
			ids[i] = id
		}
	}
	bsec := worldgen.BiomeSection{Palette: ids}
	if len(ids) > 1 && len(s.Biomes.Data) > 0 {
		bsec.Data = s.Biomes.Data
	}
	return bsec
}
