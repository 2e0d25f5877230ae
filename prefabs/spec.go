package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/obj"
)

// TuningFile is the spec the engine reads its constants from.
const TuningFile = "tuning.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := loadInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

func loadInto(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// Tuning holds the simulation constants. Zero values in a spec file keep the
// built-in defaults.
type Tuning struct {
	Name        string       `yaml:"name"`
	MapBlockLen float64      `yaml:"map_block_len"`
	Physics     PhysicsSpec  `yaml:"physics"`
	Strength    StrengthSpec `yaml:"strength"`
	Display     DisplaySpec  `yaml:"display"`
}

type PhysicsSpec struct {
	Gravity          float64 `yaml:"gravity"`
	JumpSpeed        float64 `yaml:"jump_speed"`
	PlayerSpeed      float64 `yaml:"player_speed"`
	MoveBlockSpeed   float64 `yaml:"move_block_speed"`
	CornerLen        float64 `yaml:"corner_len"`
	MoveObjCornerLen float64 `yaml:"move_obj_corner_len"`
}

type StrengthSpec struct {
	Player    int `yaml:"player"`
	Block     int `yaml:"block"`
	PushBlock int `yaml:"push_block"`
	MoveBlock int `yaml:"move_block"`
}

type DisplaySpec struct {
	Scale      int       `yaml:"scale"`
	Background YAMLColor `yaml:"background"`
	Grid       YAMLColor `yaml:"grid"`
}

var ErrInvalidTuning = errors.New("prefabs: invalid tuning")

func DefaultTuning() Tuning {
	return Tuning{
		Name:        "default",
		MapBlockLen: common.MapBlockLen,
		Physics: PhysicsSpec{
			Gravity:          common.Gravity,
			JumpSpeed:        common.JumpSpeed,
			PlayerSpeed:      common.PlayerSpeed,
			MoveBlockSpeed:   common.MoveBlockSpeed,
			CornerLen:        common.CornerLen,
			MoveObjCornerLen: common.MoveObjCornerLen,
		},
		Strength: StrengthSpec{
			Player:    common.PlayerStrength,
			Block:     common.BlockStrength,
			PushBlock: common.PushBlockStrength,
			MoveBlock: common.MoveBlockStrength,
		},
		Display: DisplaySpec{
			Scale:      3,
			Background: YAMLColor{Color: color.NRGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}},
			Grid:       YAMLColor{Color: color.NRGBA{R: 0x30, G: 0x30, B: 0x3a, A: 0xff}},
		},
	}
}

// LoadTuning reads a tuning spec on top of DefaultTuning.
func LoadTuning(filename string) (Tuning, error) {
	t := DefaultTuning()
	if err := loadInto(filename, &t); err != nil {
		return Tuning{}, err
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.MapBlockLen <= 0 {
		return fmt.Errorf("%w: map_block_len %v", ErrInvalidTuning, t.MapBlockLen)
	}
	s := t.Strength
	if s.Player < 0 || s.Block < 0 || s.PushBlock < 0 || s.MoveBlock < 0 {
		return fmt.Errorf("%w: negative strength", ErrInvalidTuning)
	}
	if t.Physics.PlayerSpeed < 0 || t.Physics.MoveBlockSpeed < 0 {
		return fmt.Errorf("%w: negative speed", ErrInvalidTuning)
	}
	return nil
}

func (t Tuning) Strengths() obj.Strengths {
	return obj.Strengths{
		Player:    t.Strength.Player,
		Block:     t.Strength.Block,
		PushBlock: t.Strength.PushBlock,
		MoveBlock: t.Strength.MoveBlock,
	}
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
