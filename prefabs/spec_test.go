package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/tilepush/common"
)

func TestEmbeddedTuningMatchesDefaults(t *testing.T) {
	tuning, err := LoadTuning(TuningFile)
	require.NoError(t, err)
	want := DefaultTuning()
	assert.Equal(t, want.MapBlockLen, tuning.MapBlockLen)
	assert.Equal(t, want.Physics, tuning.Physics)
	assert.Equal(t, want.Strength, tuning.Strength)
	assert.Equal(t, common.PushBlockStrength, tuning.Strengths().PushBlock)
}

func TestTuningPartialOverride(t *testing.T) {
	tuning := DefaultTuning()
	require.NoError(t, yaml.Unmarshal([]byte("physics:\n  gravity: 0\n"), &tuning))
	assert.Zero(t, tuning.Physics.Gravity)
	assert.Equal(t, common.PlayerSpeed, tuning.Physics.PlayerSpeed)
	assert.Equal(t, common.PlayerStrength, tuning.Strength.Player)
}

func TestLoadTuningFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floaty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: floaty\nphysics:\n  gravity: 0.005\n"), 0o644))

	tuning, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, "floaty", tuning.Name)
	assert.Equal(t, 0.005, tuning.Physics.Gravity)
	assert.Equal(t, common.JumpSpeed, tuning.Physics.JumpSpeed)

	_, err = LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTuningValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Tuning)
	}{
		{"map_len", func(t *Tuning) { t.MapBlockLen = 0 }},
		{"strength", func(t *Tuning) { t.Strength.PushBlock = -1 }},
		{"speed", func(t *Tuning) { t.Physics.PlayerSpeed = -0.1 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tuning := DefaultTuning()
			c.mod(&tuning)
			require.ErrorIs(t, tuning.Validate(), ErrInvalidTuning)
		})
	}
	require.NoError(t, DefaultTuning().Validate())
}

func TestYAMLColor(t *testing.T) {
	var out struct {
		C YAMLColor `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`c: "#ff8ad880"`), &out))
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x8a, B: 0xd8, A: 0x80}, out.C.Color)

	require.Error(t, yaml.Unmarshal([]byte(`c: "#fff"`), &out))
}

func TestScripts(t *testing.T) {
	assert.Contains(t, Scripts(), "walk_right")
	data, err := LoadScript("walk_right")
	require.NoError(t, err)
	assert.Contains(t, string(data), "input")

	assert.Equal(t, "scripts/hop_right.tengo", scriptPath("prefabs/scripts/hop_right.tengo"))
	assert.Equal(t, "scripts/walk_right.tengo", scriptPath("walk_right"))
	assert.Equal(t, "tuning.yaml", specPath("prefabs/tuning.yaml"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want ChangeKind
	}{
		{"prefabs/tuning.yaml", ChangeTuning},
		{"prefabs/TUNING.YML", ChangeTuning},
		{"prefabs/scripts/a.tengo", ChangeScript},
		{"levels/1.json", ChangeStage},
		{"main.go", ChangeNone},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.path))
		})
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case got := <-w.Changes:
		assert.Equal(t, Change{Path: path, Kind: ChangeTuning}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change for written spec")
	}

	select {
	case got := <-w.Changes:
		t.Fatalf("unexpected change %+v", got)
	case <-time.After(3 * settle):
	}
}
