package density

import (
	"fmt"
	"sync"

	"github.com/StoreStation/VibeShitCraft/internal/noise"
	"github.com/StoreStation/VibeShitCraft/internal/rng"
)

// NoiseSource instantiates the VanillaNoise implementation backing a
// "noise"/"shifted_noise"/"weird_scaled_sampler" leaf by name, using the
// dimension's positional RNG. Per spec §4.2, every distinct noise path
// referenced anywhere in a dimension's density trees is instantiated
// exactly once and shared by every tree node that names it.
type NoiseSource struct {
	root  *rng.XoroshiroPositional
	mu    sync.Mutex
	cache map[string]*noise.VanillaNoise
	defs  map[string]noise.Arguments
}

// NewNoiseSource builds a per-dimension noise instantiation cache rooted at
// the given world seed.
func NewNoiseSource(worldSeed int64, defs map[string]noise.Arguments) *NoiseSource {
	return &NoiseSource{
		root:  rng.NewXoroshiro(worldSeed).BranchPositional(),
		cache: make(map[string]*noise.VanillaNoise),
		defs:  defs,
	}
}

// Get returns the shared VanillaNoise for path, instantiating it on first
// use via hash_to_rand("minecraft:{path}") against the dimension's root
// positional RNG.
func (s *NoiseSource) Get(path string) (*noise.VanillaNoise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.cache[path]; ok {
		return n, nil
	}
	args, ok := s.defs[path]
	if !ok {
		return nil, fmt.Errorf("density: unknown noise path %q", path)
	}
	branch := s.root.HashToRand("minecraft:" + path)
	n := noise.NewVanillaNoiseModern(branch, args)
	s.cache[path] = n
	return n, nil
}

// Registry resolves "minecraft:{namespace}/{name}" external density-function
// references to their parsed Function trees, grounded on
// func_deserialize.rs's DensityArg::ExternalDensityFn: references are
// resolved eagerly and cached by name so a tree shared by many callers
// (e.g. "overworld/final_density") is parsed and instantiated once.
type Registry struct {
	noises *NoiseSource
	mu     sync.Mutex
	trees  map[string]Function
	loader func(name string) ([]byte, error)
}

// NewRegistry builds a resolver for external density-function references
// and noise leaves. loader fetches the raw JSON asset for a reference name
// (e.g. reading it from a packaged asset directory).
func NewRegistry(noises *NoiseSource, loader func(name string) ([]byte, error)) *Registry {
	return &Registry{noises: noises, trees: make(map[string]Function), loader: loader}
}

// Resolve returns the parsed Function tree for an external reference name,
// parsing and caching it on first use.
func (reg *Registry) Resolve(name string) (Function, error) {
	reg.mu.Lock()
	if f, ok := reg.trees[name]; ok {
		reg.mu.Unlock()
		return f, nil
	}
	reg.mu.Unlock()

	raw, err := reg.loader(name)
	if err != nil {
		return nil, fmt.Errorf("density: load %q: %w", name, err)
	}
	f, err := ParseFunction(raw, reg)
	if err != nil {
		return nil, fmt.Errorf("density: parse %q: %w", name, err)
	}

	reg.mu.Lock()
	reg.trees[name] = f
	reg.mu.Unlock()
	return f, nil
}
