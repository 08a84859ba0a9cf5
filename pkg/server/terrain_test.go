package server

import "testing"

func TestLoadTablesFallsBackWhenAssetsMissing(t *testing.T) {
	tables := loadTables("/nonexistent/assets/dir")
	if _, ok := tables.Block.ID("air"); !ok {
		t.Fatal("fallback block table missing \"air\"")
	}
	if _, ok := tables.Block.ID("stone"); !ok {
		t.Fatal("fallback block table missing \"stone\"")
	}
	if _, ok := tables.Biome.ID("plains"); !ok {
		t.Fatal("fallback biome table missing \"plains\"")
	}
}

func TestBuildGeneratorUsesFallbackBlockIDs(t *testing.T) {
	tables := loadTables("/nonexistent/assets/dir")
	gen := buildGenerator(1, tables)
	if gen.MinY != -64 || gen.Height != 384 {
		t.Fatalf("generator bounds = [%d,+%d), want [-64,+384)", gen.MinY, gen.Height)
	}
	airID, _ := tables.Block.ID("air")
	stoneID, _ := tables.Block.ID("stone")
	if gen.Blocks.Air != airID {
		t.Fatalf("generator air id = %d, want %d", gen.Blocks.Air, airID)
	}
	if gen.Blocks.Stone != stoneID {
		t.Fatalf("generator stone id = %d, want %d", gen.Blocks.Stone, stoneID)
	}
	if gen.Blocks.Stone == gen.Blocks.Air {
		t.Fatal("fallback table assigned stone the same id as air")
	}
}

func TestBuildDefaultDensityRootIsDeterministicPerSeed(t *testing.T) {
	a := buildDefaultDensityRoot(42)
	b := buildDefaultDensityRoot(42)
	c := buildDefaultDensityRoot(43)

	const x, y, z = 100, 64, 100
	av, bv, cv := a.Compute(x, y, z), b.Compute(x, y, z), c.Compute(x, y, z)
	if av != bv {
		t.Fatalf("same seed produced different density: %v vs %v", av, bv)
	}
	if av == cv {
		t.Fatal("different seeds produced identical density (suspiciously coincidental)")
	}
}
