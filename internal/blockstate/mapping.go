// Package blockstate loads the process-wide block-state and biome ordered
// mapping tables (assets/{block,biome}-mapping-1.21.6.json) and provides the
// blockstate name canonicalization used when reading loaded region chunks,
// grounded on chunk_system.rs BLOCKSTATES/BLOCKSTATE_MAPPINGS/BIOMES and
// deserialize_format_blockstate.
package blockstate

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Table is an ordered name<->id bijection loaded from one of the mapping
// JSON assets. Index in the array IS the global id.
type Table struct {
	names []string
	ids   map[string]uint32
}

// NewTable builds a Table directly from an ordered name list, the same
// shape LoadTable produces from a JSON asset, for callers (and tests) that
// already have the list in memory.
func NewTable(names []string) *Table {
	ids := make(map[string]uint32, len(names))
	for i, n := range names {
		ids[n] = uint32(i)
	}
	return &Table{names: names, ids: ids}
}

// LoadTable reads an ordered JSON string array from path and builds the
// name->id reverse index.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("blockstate: read %s: %w", path, err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("blockstate: parse %s: %w", path, err)
	}
	ids := make(map[string]uint32, len(names))
	for i, n := range names {
		ids[n] = uint32(i)
	}
	return &Table{names: names, ids: ids}, nil
}

// ID looks up the global id for a canonical blockstate/biome name.
func (t *Table) ID(name string) (uint32, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the canonical name for a global id.
func (t *Table) Name(id uint32) (string, bool) {
	if int(id) >= len(t.names) {
		return "", false
	}
	return t.names[id], true
}

// Len returns the number of entries in the table.
func (t *Table) Len() int { return len(t.names) }

// Tables bundles the block-state and biome mapping tables together, the
// pair C4's region reader needs to canonicalize NBT entries back into
// global ids.
type Tables struct {
	Block *Table
	Biome *Table
}

// CanonicalizeBlockstate builds the canonical "name[prop=val,...]" lookup
// key used by both the mapping tables and region NBT block entries. The
// namespace prefix ("minecraft:") is stripped and properties are sorted by
// key for a stable encoding, matching
// chunk_system.rs deserialize_format_blockstate.
func CanonicalizeBlockstate(name string, properties map[string]string) string {
	base := name
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		base = name[idx+1:]
	}
	if len(properties) == 0 {
		return base
	}
	parts := make([]string, 0, len(properties))
	for k, v := range properties {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s[%s]", base, strings.Join(parts, ","))
}
