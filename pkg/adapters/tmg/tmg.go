// Package tmg loads graphs in the TMG 1.0 format produced by the highway data tools.
//
// A file starts with a header line ("TMG 1.0 simple" or "TMG 1.0 collapsed"),
// then a line with the vertex and edge counts, then one line per vertex
// ("label lat lng") and one per edge ("v1 v2 label [lat lng ...]"). The
// optional trailing coordinates of a collapsed edge are its shaping points.
// Edge weights are great-circle lengths in miles along the shaping points.
package tmg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
)

// ErrFormat is returned for input that is not a valid TMG 1.0 graph.
var ErrFormat = errors.New("tmg: invalid format")

// Format is the second word of the header.
type Format string

const (
	Simple    Format = "simple"
	Collapsed Format = "collapsed"
)

// Load reads a TMG file from disk.
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

// Parse reads a TMG graph.
func Parse(r io.Reader) (*memory.Graph, error) {
	p := &parser{sc: bufio.NewScanner(r)}
	p.sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header, err := p.fields()
	if err != nil {
		return nil, err
	}
	if len(header) != 3 || header[0] != "TMG" {
		return nil, p.errorf("header %q", strings.Join(header, " "))
	}
	if header[1] != "1.0" {
		return nil, p.errorf("unsupported version %s", header[1])
	}
	format := Format(header[2])
	if format != Simple && format != Collapsed {
		return nil, p.errorf("unsupported format %s", header[2])
	}

	counts, err := p.fields()
	if err != nil {
		return nil, err
	}
	if len(counts) != 2 {
		return nil, p.errorf("expected vertex and edge counts")
	}
	nv, err1 := strconv.Atoi(counts[0])
	ne, err2 := strconv.Atoi(counts[1])
	if err1 != nil || err2 != nil || nv < 0 || ne < 0 {
		return nil, p.errorf("bad counts %q", strings.Join(counts, " "))
	}

	g := memory.NewGraph()
	for range nv {
		f, err := p.fields()
		if err != nil {
			return nil, err
		}
		if len(f) != 3 {
			return nil, p.errorf("vertex line needs label, lat and lng")
		}
		c, err := p.coordinate(f[1], f[2])
		if err != nil {
			return nil, err
		}
		g.AddVertex(f[0], c)
	}

	for range ne {
		f, err := p.fields()
		if err != nil {
			return nil, err
		}
		if len(f) < 3 {
			return nil, p.errorf("edge line needs two vertices and a label")
		}
		a, err1 := strconv.Atoi(f[0])
		b, err2 := strconv.Atoi(f[1])
		if err1 != nil || err2 != nil {
			return nil, p.errorf("bad edge endpoints %s %s", f[0], f[1])
		}
		rest := f[3:]
		if format == Simple && len(rest) > 0 {
			return nil, p.errorf("shaping points in a simple graph")
		}
		if len(rest)%2 != 0 {
			return nil, p.errorf("odd number of shaping point coordinates")
		}
		shaping := make([]domain.Coordinate, 0, len(rest)/2)
		for i := 0; i < len(rest); i += 2 {
			c, err := p.coordinate(rest[i], rest[i+1])
			if err != nil {
				return nil, err
			}
			shaping = append(shaping, c)
		}
		if _, err := g.AddEdgeAlong(domain.Vertex(a), domain.Vertex(b), f[2], shaping...); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrFormat, p.line, err)
		}
	}
	return g, nil
}

type parser struct {
	sc   *bufio.Scanner
	line int
}

// fields returns the words of the next non-blank line.
func (p *parser) fields() ([]string, error) {
	for p.sc.Scan() {
		p.line++
		if f := strings.Fields(p.sc.Text()); len(f) > 0 {
			return f, nil
		}
	}
	if err := p.sc.Err(); err != nil {
		return nil, err
	}
	return nil, p.errorf("unexpected end of input")
}

func (p *parser) coordinate(lat, lng string) (domain.Coordinate, error) {
	la, err1 := strconv.ParseFloat(lat, 64)
	lo, err2 := strconv.ParseFloat(lng, 64)
	if err1 != nil || err2 != nil {
		return domain.Coordinate{}, p.errorf("bad coordinate %s %s", lat, lng)
	}
	return domain.Coordinate{Lat: la, Lon: lo}, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, p.line, fmt.Sprintf(format, args...))
}
