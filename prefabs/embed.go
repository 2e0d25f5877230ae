package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Dir holds on-disk overrides of the embedded tuning specs and scripts.
const Dir = "prefabs"

//go:embed *.yaml
var specFS embed.FS

//go:embed scripts/*.tengo
var scriptFS embed.FS

// Load reads a tuning spec. A path that exists on disk as given wins, then
// the copy under Dir, then the embedded one.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return readOverride(specFS, specPath(name))
}

// LoadScript reads an input script by name, with or without its directory
// and extension.
func LoadScript(name string) ([]byte, error) {
	return readOverride(scriptFS, scriptPath(name))
}

// Scripts lists the embedded input scripts by base name.
func Scripts() []string {
	entries, err := fs.ReadDir(scriptFS, "scripts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tengo"))
	}
	sort.Strings(names)
	return names
}

func readOverride(embedded fs.FS, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(name)))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return fs.ReadFile(embedded, name)
}

func specPath(name string) string {
	return strings.TrimPrefix(filepath.ToSlash(name), Dir+"/")
}

func scriptPath(name string) string {
	base := path.Base(filepath.ToSlash(name))
	if !strings.HasSuffix(base, ".tengo") {
		base += ".tengo"
	}
	return "scripts/" + base
}
