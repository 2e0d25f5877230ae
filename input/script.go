package input

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// A Script is a tengo program defining
//
//	input := func(tick) { return {held: "r", pressed: "u"} }
//
// which is called once per tick. Either key may be left out.
type Script struct {
	name     string
	compiled *tengo.Compiled
}

const inputDispatchScript = `
__out = input(__tick)
`

// CompileScript prepares src for repeated calls.
func CompileScript(name string, src []byte) (*Script, error) {
	full := string(src) + "\n" + inputDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__tick", 0)
	_ = script.Add("__out", nil)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile %s: %w", name, err)
	}
	return &Script{name: name, compiled: compiled}, nil
}

func (s *Script) Name() string {
	return s.name
}

// Next runs the script's input function for tick.
func (s *Script) Next(tick int) (Snapshot, error) {
	if s == nil || s.compiled == nil {
		return Snapshot{}, fmt.Errorf("input: nil script")
	}
	if err := s.compiled.Set("__tick", tick); err != nil {
		return Snapshot{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return Snapshot{}, fmt.Errorf("input: run %s at tick %d: %w", s.name, tick, err)
	}

	out := s.compiled.Get("__out")
	if out.IsUndefined() {
		return Snapshot{}, nil
	}
	m := out.Map()
	if m == nil {
		return Snapshot{}, fmt.Errorf("input: %s returned %s, want a map", s.name, out.ValueType())
	}

	var snap Snapshot
	var err error
	if snap.Held, err = setField(m, "held"); err != nil {
		return Snapshot{}, fmt.Errorf("input: %s: %w", s.name, err)
	}
	if snap.Pressed, err = setField(m, "pressed"); err != nil {
		return Snapshot{}, fmt.Errorf("input: %s: %w", s.name, err)
	}
	return snap, nil
}

func setField(m map[string]any, key string) (Set, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, nil
	}
	text, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("%s must be a string", key)
	}
	return ParseSet(strings.ToLower(text))
}
