package assembly

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var definitionsFS embed.FS

// Load reads a definition file, preferring the on-disk copy so edits take
// effect without a rebuild, falling back to the embedded default.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return definitionsFS.ReadFile(clean)
}

// ModTime reports the on-disk modification time of a definition, if present.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func listEmbedded() ([]string, error) {
	var names []string
	err := fs.WalkDir(definitionsFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		names = append(names, strings.TrimSuffix(path, filepath.Ext(path)))
		return nil
	})
	return names, err
}

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assembly/"); ok {
		return after
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join("assembly", filepath.FromSlash(clean))
}
