package resolve

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discover returns every immediate subdirectory of root that contains a
// logseq/ marker directory. Non-graph entries are skipped silently and an
// empty result is valid; the caller decides whether that is fatal.
// Discovery is deliberately shallow: nested graph hierarchies are not
// scanned.
func Discover(root string) ([]*Graph, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	// os.ReadDir sorts by name, so discovery order is deterministic.
	var graphs []*Graph
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		dir := filepath.Join(abs, ent.Name())
		info, err := os.Stat(filepath.Join(dir, MarkerDir))
		if err != nil || !info.IsDir() {
			continue
		}
		graphs = append(graphs, &Graph{Name: ent.Name(), Root: dir})
	}
	return graphs, nil
}
