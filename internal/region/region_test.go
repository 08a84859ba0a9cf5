package region

import (
	"testing"

	"github.com/StoreStation/VibeShitCraft/internal/blockstate"
)

func newTestTables() *Tables {
	return &Tables{
		Block: blockstate.NewTable([]string{"air", "stone"}),
		Biome: blockstate.NewTable([]string{"plains"}),
	}
}

func TestEvictLRUSkipsPinnedEntries(t *testing.T) {
	m := NewManager("/nonexistent", 2, newTestTables())
	pinned := &cachedRegion{}
	pinned.inUse.Store(1)
	pinned.lastUse.Store(1)
	unpinned := &cachedRegion{}
	unpinned.inUse.Store(0)
	unpinned.lastUse.Store(2)

	m.cache[Key{Dim: 0, Coord: 1}] = pinned
	m.cache[Key{Dim: 0, Coord: 2}] = unpinned

	if !m.evictLRULocked() {
		t.Fatal("expected an evictable entry")
	}
	if _, ok := m.cache[Key{Dim: 0, Coord: 1}]; !ok {
		t.Fatal("pinned entry must not be evicted")
	}
	if _, ok := m.cache[Key{Dim: 0, Coord: 2}]; ok {
		t.Fatal("unpinned entry should have been evicted")
	}
}

func TestEvictLRUReturnsFalseWhenAllPinned(t *testing.T) {
	m := NewManager("/nonexistent", 2, newTestTables())
	pinned := &cachedRegion{}
	pinned.inUse.Store(1)
	m.cache[Key{Dim: 0, Coord: 1}] = pinned

	if m.evictLRULocked() {
		t.Fatal("expected no evictable entry when everything is pinned")
	}
}

func TestEvictLRUPicksOldestLastUse(t *testing.T) {
	m := NewManager("/nonexistent", 3, newTestTables())
	old := &cachedRegion{}
	old.lastUse.Store(10)
	newer := &cachedRegion{}
	newer.lastUse.Store(500)

	m.cache[Key{Dim: 0, Coord: 1}] = old
	m.cache[Key{Dim: 0, Coord: 2}] = newer

	m.evictLRULocked()
	if _, ok := m.cache[Key{Dim: 0, Coord: 1}]; ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := m.cache[Key{Dim: 0, Coord: 2}]; !ok {
		t.Fatal("newer entry should remain")
	}
}

func TestGetRegionChunksMissingFileReturnsAllMissing(t *testing.T) {
	m := NewManager("/nonexistent/level", 4, newTestTables())
	found, missing := m.GetRegionChunks(0, 0, []int{0, 1, 2})
	if len(found) != 0 {
		t.Fatalf("expected no chunks found, got %d", len(found))
	}
	if len(missing) != 3 {
		t.Fatalf("expected all 3 requested indices missing, got %v", missing)
	}
}
