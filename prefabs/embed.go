package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

// DiskDir is where on-disk overrides of the embedded prefabs live. A file
// found there wins over the embedded copy, which is what makes hot reload
// work during development.
var DiskDir = "prefabs"

//go:embed *.yaml
var specFS embed.FS

//go:embed scripts/*.tengo
var scriptFS embed.FS

// Load returns the named spec file.
func Load(name string) ([]byte, error) {
	return read(specFS, specPath(name))
}

// LoadScript returns the named tengo script. "graph.tengo",
// "scripts/graph.tengo" and "prefabs/scripts/graph.tengo" all name the same
// file.
func LoadScript(name string) ([]byte, error) {
	return read(scriptFS, "scripts/"+scriptName(name))
}

func read(fsys embed.FS, rel string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(DiskDir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return fsys.ReadFile(rel)
}

func specPath(name string) string {
	return strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
}

func scriptName(name string) string {
	s := strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
	return strings.TrimPrefix(s, "scripts/")
}
