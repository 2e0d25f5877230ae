package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Dir is checked for a level file before the embedded copy.
var Dir = "levels"

// Names lists the built-in levels in play order.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, errA := strconv.Atoi(names[i])
		b, errB := strconv.Atoi(names[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return names[i] < names[j]
	})
	return names
}

// Load reads and imports a level by name, preferring a copy on disk.
func Load(name string) (*Level, error) {
	file := strings.TrimSuffix(filepath.Base(name), ".json") + ".json"
	data, err := os.ReadFile(filepath.Join(Dir, file))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, file)
	}
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", file, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", file, err)
	}
	lvl.Name = strings.TrimSuffix(file, ".json")
	return lvl, nil
}
