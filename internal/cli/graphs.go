package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/adapters/tmg"
	"github.com/aretw0/travspan/pkg/adapters/yamlgraph"
)

// ErrUnsupportedGraph is returned for files whose extension has no loader.
var ErrUnsupportedGraph = errors.New("unsupported graph file")

// LoadGraph picks a loader from the file extension: .tmg or .yaml/.yml.
func LoadGraph(path string) (*memory.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tmg":
		return tmg.Load(path)
	case ".yaml", ".yml":
		return yamlgraph.Load(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedGraph, path)
}

// GraphName is the catalog name of a graph file: its base name without extension.
func GraphName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadCatalog loads graph files, and every supported file directly inside
// the given directories, into a catalog keyed by GraphName.
func LoadCatalog(paths ...string) (*memory.Catalog, error) {
	cat := memory.NewCatalog()
	seen := make(map[string]string)

	add := func(path string) error {
		name := GraphName(path)
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("graph %q defined by both %s and %s", name, prev, path)
		}
		g, err := LoadGraph(path)
		if err != nil {
			return err
		}
		seen[name] = path
		cat.Add(name, g)
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".tmg", ".yaml", ".yml":
				if err := add(filepath.Join(p, e.Name())); err != nil {
					return nil, err
				}
			}
		}
	}
	return cat, nil
}
