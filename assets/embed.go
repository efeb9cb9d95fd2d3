// Package assets embeds the built-in content pack so the server can run
// before anything has been imported.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.yaml
var FS embed.FS

// ContentFiles lists the embedded content files in lexical order.
func ContentFiles() ([]string, error) {
	entries, err := fs.ReadDir(FS, "content")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".yaml") {
			continue
		}
		out = append(out, path.Join("content", e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ReadContent returns an embedded content file.
func ReadContent(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
