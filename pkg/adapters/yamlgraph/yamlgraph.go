// Package yamlgraph loads hand-written graphs from YAML documents.
//
//	vertices:
//	  - {label: A, lat: 42.0, lon: -73.0}
//	  - {label: B}
//	edges:
//	  - {from: A, to: B, weight: 3, label: A-B}
//	  - {from: 0, to: 1, shaping: [{lat: 42.5, lon: -73.2}]}
//
// Endpoints are vertex labels or indices. An edge without a weight is as long
// as the great-circle polyline through its shaping points, in miles.
package yamlgraph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ErrFormat is returned for documents that do not describe a valid graph.
var ErrFormat = errors.New("yamlgraph: invalid graph")

// Document is the YAML schema of a graph file.
type Document struct {
	Name     string       `yaml:"name,omitempty"`
	Vertices []VertexSpec `yaml:"vertices"`
	Edges    []EdgeSpec   `yaml:"edges"`
}

type VertexSpec struct {
	Label string  `yaml:"label"`
	Lat   float64 `yaml:"lat,omitempty"`
	Lon   float64 `yaml:"lon,omitempty"`
}

type EdgeSpec struct {
	From    string              `yaml:"from"`
	To      string              `yaml:"to"`
	Weight  *float64            `yaml:"weight,omitempty"`
	Label   string              `yaml:"label,omitempty"`
	Shaping []domain.Coordinate `yaml:"shaping,omitempty"`
}

// Load reads a graph file from disk.
func Load(path string) (*memory.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse decodes a single YAML document and builds the graph.
func Parse(r io.Reader) (*memory.Graph, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return doc.Build()
}

// Build turns the document into a graph.
func (d Document) Build() (*memory.Graph, error) {
	g := memory.NewGraph()
	byLabel := make(map[string]domain.Vertex, len(d.Vertices))
	for i, v := range d.Vertices {
		label := v.Label
		if label == "" {
			label = strconv.Itoa(i)
		}
		if _, dup := byLabel[label]; dup {
			return nil, fmt.Errorf("%w: duplicate vertex label %q", ErrFormat, label)
		}
		byLabel[label] = g.AddVertex(label, domain.Coordinate{Lat: v.Lat, Lon: v.Lon})
	}

	resolve := func(ref string) (domain.Vertex, error) {
		if v, ok := byLabel[ref]; ok {
			return v, nil
		}
		if i, err := strconv.Atoi(ref); err == nil && i >= 0 && i < len(d.Vertices) {
			return domain.Vertex(i), nil
		}
		return domain.NoVertex, fmt.Errorf("%w: unknown vertex %q", ErrFormat, ref)
	}

	for i, e := range d.Edges {
		a, err := resolve(e.From)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		b, err := resolve(e.To)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if e.Weight != nil {
			_, err = g.AddEdge(a, b, *e.Weight, e.Label)
		} else {
			_, err = g.AddEdgeAlong(a, b, e.Label, e.Shaping...)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: edge %d: %w", ErrFormat, i, err)
		}
	}
	return g, nil
}
