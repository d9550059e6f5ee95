package discovery

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dumper keeps a page's raw markup around for manual inspection.
type Dumper interface {
	Dump(pageNum int, html string) (string, error)
}

// DirDumper writes markup to debug_page_source_page{N}.html files in Dir.
type DirDumper struct {
	Dir string
}

// Dump writes html for the given listing page and returns the file path.
func (d DirDumper) Dump(pageNum int, html string) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create diagnostics directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("debug_page_source_page%d.html", pageNum))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write page source: %w", err)
	}

	return path, nil
}
