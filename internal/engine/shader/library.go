package shader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/fpsgame/internal/config"
	"github.com/Faultbox/fpsgame/internal/logger"
)

// Library maps source file names such as "scene.vert" to GLSL text.
type Library struct {
	sources map[string]string
	origin  map[string]string
}

// NewLibrary returns a library seeded with built-in sources.
func NewLibrary(builtin map[string]string) *Library {
	l := &Library{
		sources: make(map[string]string, len(builtin)),
		origin:  make(map[string]string, len(builtin)),
	}
	for name, src := range builtin {
		l.sources[name] = src
		l.origin[name] = "builtin"
	}
	return l
}

// Scan reads every .vert and .frag file under the resource locations. A file
// replaces the source with the same base name; later locations win.
func (l *Library) Scan(res config.Resources) error {
	for _, loc := range res.Locations {
		err := filepath.WalkDir(loc.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != loc.Path && !loc.Recursive {
					return filepath.SkipDir
				}
				return nil
			}
			ext := filepath.Ext(path)
			if ext != ".vert" && ext != ".frag" {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			name := filepath.Base(path)
			l.sources[name] = string(data)
			l.origin[name] = path
			logger.Debug("shader source", zap.String("name", name), zap.String("path", path))
			return nil
		})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", loc.Path, err)
		}
	}
	return nil
}

// Sources returns the vertex and fragment sources of a program.
func (l *Library) Sources(program string) (vert, frag string, err error) {
	vert, ok := l.sources[program+".vert"]
	if !ok {
		return "", "", fmt.Errorf("shader %s.vert not found", program)
	}
	frag, ok = l.sources[program+".frag"]
	if !ok {
		return "", "", fmt.Errorf("shader %s.frag not found", program)
	}
	return vert, frag, nil
}

// Origin returns where a source came from: "builtin" or a file path.
func (l *Library) Origin(name string) string {
	return l.origin[name]
}

// Names returns the known source names.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.sources))
	for n := range l.sources {
		names = append(names, n)
	}
	return names
}

// HasPrefix reports whether any source name starts with prefix.
func (l *Library) HasPrefix(prefix string) bool {
	for n := range l.sources {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}
