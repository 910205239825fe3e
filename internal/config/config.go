// Package config reads run files: YAML documents that name a graph and
// describe one traversal, so a run can be replayed without retyping flags.
//
//	graph: testdata/siena.tmg
//	algorithm: dijkstra
//	start: SR1@Main
//	end: 12
//	mode: stop-at-end
//	max_steps: 5000
//	log_level: debug
//	redis:
//	  addr: localhost:6379
//	  ttl: 1h
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for run files that cannot be decoded or resolved.
var ErrInvalid = errors.New("invalid run file")

// File is the decoded content of a run file.
type File struct {
	Graph     string              `mapstructure:"graph"`
	Algorithm domain.Algorithm    `mapstructure:"algorithm"`
	Mode      domain.StoppingMode `mapstructure:"mode"`
	// Start and End are vertex labels or indices.
	Start    string `mapstructure:"start"`
	End      string `mapstructure:"end"`
	Seed     uint64 `mapstructure:"seed"`
	MaxSteps int    `mapstructure:"max_steps"`
	LogLevel string `mapstructure:"log_level"`
	Redis    Redis  `mapstructure:"redis"`
	// StoreDir keeps snapshots as JSON files when no redis address is set.
	StoreDir string `mapstructure:"store_dir"`
}

// Redis configures the optional shared snapshot store.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads and decodes a run file from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML into a generic map, then maps it onto File.
// Unknown keys are rejected; scalars are weakly typed so "start: 3" works.
func Decode(r io.Reader) (*File, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var out File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			algorithmHook,
			modeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &out, nil
}

var (
	algorithmType = reflect.TypeOf(domain.Algorithm(""))
	modeType      = reflect.TypeOf(domain.StoppingMode(""))
)

func algorithmHook(from, to reflect.Type, data any) (any, error) {
	if to != algorithmType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseAlgorithm(data.(string))
}

func modeHook(from, to reflect.Type, data any) (any, error) {
	if to != modeType || from.Kind() != reflect.String {
		return data, nil
	}
	if data.(string) == "" {
		return domain.StoppingMode(""), nil
	}
	return domain.ParseStoppingMode(data.(string))
}

// VertexFinder is implemented by graphs that can look vertices up by label.
type VertexFinder interface {
	FindVertex(label string) (domain.Vertex, bool)
}

// RunConfig resolves the vertex references against g.
// An empty start means vertex 0; an empty end means no destination.
func (f *File) RunConfig(g ports.GraphProvider) (domain.Config, error) {
	cfg := domain.NewConfig(f.Algorithm, 0)
	cfg.Mode = f.Mode
	cfg.Seed = f.Seed
	var err error
	if f.Start != "" {
		if cfg.Start, err = ResolveVertex(g, f.Start); err != nil {
			return cfg, err
		}
	}
	if f.End != "" {
		if cfg.End, err = ResolveVertex(g, f.End); err != nil {
			return cfg, err
		}
		if cfg.Mode == "" {
			cfg.Mode = domain.StopAtEnd
		}
	}
	return cfg, nil
}

// ResolveVertex accepts a vertex label (when g supports lookups) or an index.
func ResolveVertex(g ports.GraphProvider, ref string) (domain.Vertex, error) {
	if finder, ok := g.(VertexFinder); ok {
		if v, found := finder.FindVertex(ref); found {
			return v, nil
		}
	}
	i, err := strconv.Atoi(ref)
	if err != nil || i < 0 || i >= g.VertexCount() {
		return domain.NoVertex, fmt.Errorf("%w: unknown vertex %q", ErrInvalid, ref)
	}
	return domain.Vertex(i), nil
}
