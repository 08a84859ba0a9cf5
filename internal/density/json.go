package density

import (
	"encoding/json"
	"fmt"
	"sync"
)

// rawNode mirrors the vanilla density-function JSON asset shape: a
// "type" tag namespaced as "minecraft:{variant}" plus variant-specific
// fields. Numeric/string leaves (constants and external references) never
// carry a "type" field and are detected by json.RawMessage's first byte
// instead, matching func_deserialize.rs's DensityArg three-way dispatch
// (Constant / DensityFn / ExternalDensityFn).
type rawNode struct {
	Type string `json:"type"`

	Argument1 json.RawMessage `json:"argument1"`
	Argument2 json.RawMessage `json:"argument2"`
	Input     json.RawMessage `json:"input"`

	MinInclusive *float64 `json:"min_inclusive"`
	MaxExclusive *float64 `json:"max_exclusive"`
	WhenInRange  json.RawMessage `json:"when_in_range"`
	WhenOutOfRange json.RawMessage `json:"when_out_of_range"`

	FromY     *float64 `json:"from_y"`
	ToY       *float64 `json:"to_y"`
	FromValue *float64 `json:"from_value"`
	ToValue   *float64 `json:"to_value"`

	MinValue *float64 `json:"min_value"`
	MaxValue *float64 `json:"max_value"`

	NoiseName       string   `json:"noise"`
	XZScale         *float64 `json:"xz_scale"`
	YScale          *float64 `json:"y_scale"`
	ShiftX          json.RawMessage `json:"shift_x"`
	ShiftY          json.RawMessage `json:"shift_y"`
	ShiftZ          json.RawMessage `json:"shift_z"`
	RarityValueMapper string `json:"rarity_value_mapper"`

	Coordinate json.RawMessage `json:"coordinate"`
	Points     []rawSplinePoint `json:"points"`
}

type rawSplinePoint struct {
	Location   float64         `json:"location"`
	Value      json.RawMessage `json:"value"`
	Derivative float64         `json:"derivative"`
}

// ParseFunction decodes a density-function JSON asset into a Function
// tree, resolving any external "minecraft:{name}" string references
// through reg.
func ParseFunction(raw []byte, reg *Registry) (Function, error) {
	var probe interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	return parseValue(raw, reg)
}

func parseValue(raw json.RawMessage, reg *Registry) (Function, error) {
	trimmed := trimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("density: empty node")
	}
	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, err
		}
		return reg.Resolve(name)
	case '{':
		var node rawNode
		if err := json.Unmarshal(raw, &node); err != nil {
			return nil, err
		}
		return parseNode(node, reg)
	default:
		var c float64
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("density: leaf is neither number, string nor object: %w", err)
		}
		return Const(c), nil
	}
}

func trimSpace(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return b[i:]
}

func arg(raw json.RawMessage, reg *Registry) (Function, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("density: missing argument")
	}
	return parseValue(raw, reg)
}

func parseNode(n rawNode, reg *Registry) (Function, error) {
	switch n.Type {
	case "minecraft:constant":
		return nil, fmt.Errorf("density: constant nodes are represented as bare numbers, not minecraft:constant")
	case "minecraft:add":
		a, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		b, err := arg(n.Argument2, reg)
		if err != nil {
			return nil, err
		}
		return Add(a, b), nil
	case "minecraft:mul":
		a, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		b, err := arg(n.Argument2, reg)
		if err != nil {
			return nil, err
		}
		return Mul(a, b), nil
	case "minecraft:min":
		a, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		b, err := arg(n.Argument2, reg)
		if err != nil {
			return nil, err
		}
		return MinOf(a, b), nil
	case "minecraft:max":
		a, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		b, err := arg(n.Argument2, reg)
		if err != nil {
			return nil, err
		}
		return MaxOf(a, b), nil
	case "minecraft:abs":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		return Abs(in), nil
	case "minecraft:square":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		return Square(in), nil
	case "minecraft:cube":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		return Cube(in), nil
	case "minecraft:half_negative":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		return HalfNegative(in), nil
	case "minecraft:quarter_negative":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		return QuarterNegative(in), nil
	case "minecraft:squeeze":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		return Squeeze(in), nil
	case "minecraft:clamp":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		return &Clamp{In: in, Lo: fval(n.MinValue), Hi: fval(n.MaxValue)}, nil
	case "minecraft:y_clamped_gradient":
		return &YClampedGradient{
			FromY: fval(n.FromY), ToY: fval(n.ToY),
			FromValue: fval(n.FromValue), ToValue: fval(n.ToValue),
		}, nil
	case "minecraft:range_choice":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		inRange, err := arg(n.WhenInRange, reg)
		if err != nil {
			return nil, err
		}
		outRange, err := arg(n.WhenOutOfRange, reg)
		if err != nil {
			return nil, err
		}
		return &RangeChoice{Input: in, Lo: fval(n.MinInclusive), Hi: fval(n.MaxExclusive), InRange: inRange, OutOfRange: outRange}, nil
	case "minecraft:noise":
		vn, err := reg.noises.Get(n.NoiseName)
		if err != nil {
			return nil, err
		}
		return &Noise{N: vn, XZScale: fval(n.XZScale), YScale: fval(n.YScale), Name: n.NoiseName}, nil
	case "minecraft:shifted_noise":
		vn, err := reg.noises.Get(n.NoiseName)
		if err != nil {
			return nil, err
		}
		sx, err := arg(n.ShiftX, reg)
		if err != nil {
			return nil, err
		}
		sy, err := arg(n.ShiftY, reg)
		if err != nil {
			return nil, err
		}
		sz, err := arg(n.ShiftZ, reg)
		if err != nil {
			return nil, err
		}
		return &ShiftedNoise{N: vn, Name: n.NoiseName, XZScale: fval(n.XZScale), YScale: fval(n.YScale), ShiftX: sx, ShiftY: sy, ShiftZ: sz}, nil
	case "minecraft:shift_a":
		vn, err := reg.noises.Get(n.NoiseName)
		if err != nil {
			return nil, err
		}
		return &ShiftA{N: vn, Name: n.NoiseName}, nil
	case "minecraft:shift_b":
		vn, err := reg.noises.Get(n.NoiseName)
		if err != nil {
			return nil, err
		}
		return &ShiftB{N: vn, Name: n.NoiseName}, nil
	case "minecraft:weird_scaled_sampler":
		in, err := arg(n.Input, reg)
		if err != nil {
			return nil, err
		}
		vn, err := reg.noises.Get(n.NoiseName)
		if err != nil {
			return nil, err
		}
		rt := Rarity3D
		if n.RarityValueMapper == "type_2" {
			rt = Rarity2D
		}
		return &WeirdScaledSampler{Input: in, N: vn, Name: n.NoiseName, Type: rt}, nil
	case "minecraft:interpolated":
		in, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		return &Interpolated{In: in}, nil
	case "minecraft:cache_once":
		in, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		return &CacheOnce{In: in}, nil
	case "minecraft:flat_cache":
		in, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		return &FlatCache{In: in}, nil
	case "minecraft:cache_2d":
		in, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		return &Cache2D{In: in}, nil
	case "minecraft:blend_density":
		inner, err := arg(n.Argument1, reg)
		if err != nil {
			return nil, err
		}
		return &BlendDensity{Inner: inner, Alpha: BlendAlpha{}, Offset: BlendOffset{}}, nil
	case "minecraft:blend_offset":
		return BlendOffset{}, nil
	case "minecraft:blend_alpha":
		return BlendAlpha{}, nil
	case "minecraft:end_islands":
		return EndIslands{}, nil
	case "minecraft:old_blended_noise":
		return &OldBlendedNoiseFn{Shared: sharedOldBlendedNoise()}, nil
	case "minecraft:spline":
		coord, err := arg(n.Coordinate, reg)
		if err != nil {
			return nil, err
		}
		points := make([]SplinePoint, len(n.Points))
		for i, p := range n.Points {
			v, err := arg(p.Value, reg)
			if err != nil {
				return nil, err
			}
			points[i] = SplinePoint{Location: p.Location, Value: v, Derivative: p.Derivative}
		}
		return &Spline{Coordinate: coord, Points: points}, nil
	default:
		return nil, fmt.Errorf("density: unknown function type %q", n.Type)
	}
}

func fval(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

var oldBlendedNoiseOnce struct {
	once sync.Once
	inst *OldBlendedNoise
}

func sharedOldBlendedNoise() *OldBlendedNoise {
	oldBlendedNoiseOnce.once.Do(func() {
		oldBlendedNoiseOnce.inst = NewOldBlendedNoise()
	})
	return oldBlendedNoiseOnce.inst
}
