// internal/themes/themes.go
//
// Provides theme management for the game engine.
//
// Responsibilities:
//   - Load the embedded theme lists and an optional external theme file.
//   - Validate that each theme has exactly 8 distinct symbolic keys.
//   - Supply lookups like Get, Names and Default.
//
// Theme lists:
//   - One key per line, lowercase letters, digits, '-' and '_'.
//   - Blank lines and lines starting with '#' are ignored.
//   - A theme's name is its file base name without ".txt".
//
// Initialization behavior (Init):
//  1. Embedded themes from assets/themes/*.txt are always loaded.
//  2. If a file path is given, it is loaded as one more theme and may
//     replace an embedded theme of the same name.
//
// Keys stay symbolic: shells decide how a key maps to an image.

package themes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/memorygame/assets"
	"github.com/robalobadob/memorygame/internal/game"
)

// DefaultName is the theme used when none is requested.
const DefaultName = "christmas"

// ErrUnknownTheme is returned by Get for names that were never loaded.
var ErrUnknownTheme = errors.New("unknown theme")

// Registry holds validated themes by name.
type Registry struct {
	themes map[string][]game.Face
}

// Load builds a registry from the embedded themes plus extraFile, if set.
func Load(extraFile string) (*Registry, error) {
	embedded, err := assets.Themes()
	if err != nil {
		return nil, fmt.Errorf("themes: read embedded: %w", err)
	}
	r := &Registry{themes: make(map[string][]game.Face, len(embedded)+1)}
	for name, keys := range embedded {
		if err := r.add(name, keys); err != nil {
			return nil, err
		}
	}

	if extraFile != "" {
		keys, err := readThemeFile(extraFile)
		if err != nil {
			return nil, fmt.Errorf("themes: read %s: %w", extraFile, err)
		}
		name := strings.TrimSuffix(filepath.Base(extraFile), filepath.Ext(extraFile))
		if err := r.add(strings.ToLower(name), keys); err != nil {
			return nil, err
		}
	}

	if _, ok := r.themes[DefaultName]; !ok {
		return nil, fmt.Errorf("themes: default theme %q missing", DefaultName)
	}
	return r, nil
}

func (r *Registry) add(name string, keys []string) error {
	faces := make([]game.Face, 0, len(keys))
	for _, k := range keys {
		if !isKey(k) {
			return fmt.Errorf("themes: %s: invalid key %q", name, k)
		}
		faces = append(faces, game.Face(k))
	}
	// A deck built from the theme must be valid.
	if _, err := game.NewDeck(faces, game.NewRand(0)); err != nil {
		return fmt.Errorf("themes: %s: %w", name, err)
	}
	r.themes[name] = faces
	return nil
}

func readThemeFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}

// isKey reports whether s is a lowercase key usable as a file name.
func isKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

// Get returns a copy of the faces of theme name. An empty name means the default.
func (r *Registry) Get(name string) ([]game.Face, error) {
	if name == "" {
		name = DefaultName
	}
	faces, ok := r.themes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return append([]game.Face(nil), faces...), nil
}

// Names lists loaded themes in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.themes))
	for n := range r.themes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// --- process-wide registry ---

var (
	initOnce   sync.Once
	defaultReg *Registry
	initialErr error
)

// Init loads the process-wide registry exactly once.
func Init(extraFile string) error {
	initOnce.Do(func() {
		defaultReg, initialErr = Load(extraFile)
	})
	return initialErr
}

// Default returns the registry loaded by Init, loading embedded themes
// only if Init was never called.
func Default() *Registry {
	_ = Init("")
	return defaultReg
}
