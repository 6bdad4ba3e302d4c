package workarea

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Prefix marks directories owned by this package inside the work dir.
const Prefix = "reel-"

// Area is a scratch directory scoped to one request.
type Area struct {
	dir  string
	once sync.Once
	err  error
}

// Create makes a fresh work area for contentID under baseDir.
func Create(baseDir, contentID string) (*Area, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("create work area: base directory is empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir %q: %w", baseDir, err)
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	dir := filepath.Join(baseDir, Prefix+contentID+"-"+suffix)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create work area %q: %w", dir, err)
	}
	return &Area{dir: dir}, nil
}

// Dir returns the absolute directory of the area.
func (a *Area) Dir() string { return a.dir }

// Path returns name joined to the area directory.
func (a *Area) Path(name string) string {
	return filepath.Join(a.dir, name)
}

// Remove deletes the area and everything in it. Subsequent calls return the
// result of the first.
func (a *Area) Remove() error {
	if a == nil {
		return nil
	}
	a.once.Do(func() {
		if err := os.RemoveAll(a.dir); err != nil {
			a.err = fmt.Errorf("remove work area %q: %w", a.dir, err)
		}
	})
	return a.err
}
