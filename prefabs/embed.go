package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// DefaultDir is the disk override directory used by the package-level helpers.
const DefaultDir = "prefabs"

// Loader reads prefab files from Dir first and falls back to the embedded
// copies. An empty Dir disables the disk override.
type Loader struct {
	Dir string
}

var defaultLoader = Loader{Dir: DefaultDir}

func Load(name string) ([]byte, error) {
	return defaultLoader.Load(name)
}

func LoadScript(name string) ([]byte, error) {
	return defaultLoader.LoadScript(name)
}

func (l Loader) Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := l.readDisk(clean); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func (l Loader) LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := l.readDisk(clean); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func (l Loader) ModTime(name string) (time.Time, bool) {
	if l.Dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(l.diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// WatchDirs lists the on-disk directories a Watcher should observe.
func (l Loader) WatchDirs() []string {
	if l.Dir == "" {
		return nil
	}
	var dirs []string
	for _, d := range []string{l.Dir, filepath.Join(l.Dir, "scripts")} {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (l Loader) readDisk(clean string) ([]byte, error) {
	if l.Dir == "" {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(l.diskPath(clean))
}

func (l Loader) diskPath(clean string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(clean))
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}
