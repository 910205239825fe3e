package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
)

// Catalog implements ports.GraphCatalog over a map. Safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	graphs map[string]ports.GraphProvider
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{graphs: make(map[string]ports.GraphProvider)}
}

// Add registers g under name, replacing any previous graph of that name.
func (c *Catalog) Add(name string, g ports.GraphProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graphs[name] = g
}

func (c *Catalog) Graph(name string) (ports.GraphProvider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.graphs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrGraphNotFound, name)
	}
	return g, nil
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.graphs))
	for name := range c.graphs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
