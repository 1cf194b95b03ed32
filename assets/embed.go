package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed themes/*.txt
var FS embed.FS

// ReadLines parses a theme list: one key per line, lowercased,
// blank lines and "#" comments skipped.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// Themes returns the embedded theme lists keyed by file base name.
func Themes() (map[string][]string, error) {
	paths, err := fs.Glob(FS, "themes/*.txt")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	out := make(map[string][]string, len(paths))
	for _, p := range paths {
		f, err := FS.Open(p)
		if err != nil {
			return nil, err
		}
		lines, err := ReadLines(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(path.Base(p), ".txt")] = lines
	}
	return out, nil
}
