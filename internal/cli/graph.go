package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/travspan"
	"github.com/aretw0/travspan/internal/config"
	"github.com/aretw0/travspan/internal/presentation/graph"
	"github.com/aretw0/travspan/internal/validator"
	"github.com/aretw0/travspan/pkg/adapters/gonum"
	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
)

// GraphOptions configures the graph command.
type GraphOptions struct {
	Path string
	// Format is summary, json, dot or mermaid.
	Format string
	// Algorithm, Start, End and Mode optionally run a traversal first;
	// the mermaid output then highlights its tree and path.
	Algorithm string
	Start     string
	End       string
	Mode      string
}

// DescribeGraph writes a graph file in the requested format.
func DescribeGraph(ctx context.Context, w io.Writer, opts GraphOptions) error {
	g, err := LoadGraph(opts.Path)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "", "summary":
		s := gonum.Summarize(g)
		_, err = fmt.Fprintf(w, "%s: %d vertices, %d edges, %d components, minimum spanning weight %.3f\n",
			GraphName(opts.Path), s.Vertices, s.Edges, s.Components, s.SpanningWeight)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(gonum.Summarize(g))
	case "dot":
		b, err := gonum.MarshalDOT(g, GraphName(opts.Path))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "mermaid":
		var overlay *graph.Overlay
		if opts.Algorithm != "" {
			if overlay, err = traverse(ctx, g, opts); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, graph.GenerateMermaid(g, overlay))
		return err
	}
	return fmt.Errorf("unknown format %q, supported: summary, json, dot, mermaid", opts.Format)
}

func traverse(ctx context.Context, g *memory.Graph, opts GraphOptions) (*graph.Overlay, error) {
	alg, err := domain.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	file := &config.File{Algorithm: alg, Start: opts.Start, End: opts.End}
	if opts.Mode != "" {
		if file.Mode, err = domain.ParseStoppingMode(opts.Mode); err != nil {
			return nil, err
		}
	}
	cfg, err := file.RunConfig(g)
	if err != nil {
		return nil, err
	}

	eng, err := travspan.New(g)
	if err != nil {
		return nil, err
	}
	if err := eng.Start(ctx, cfg); err != nil {
		return nil, err
	}
	if _, err := eng.Run(ctx, 0); err != nil {
		return nil, err
	}
	res, err := eng.Result()
	if err != nil {
		return nil, err
	}
	return graph.OverlayFromResult(eng.Config(), res), nil
}

// ValidateGraph lints a graph file and prints its warnings. Errors are returned.
func ValidateGraph(w io.Writer, path, start string) error {
	g, err := LoadGraph(path)
	if err != nil {
		return err
	}
	from := domain.Vertex(0)
	if start != "" {
		if from, err = config.ResolveVertex(g, start); err != nil {
			return err
		}
	}
	report := validator.ValidateGraph(g, from)
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if err := report.Err(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s is valid (%d vertices, %d edges)\n", GraphName(path), g.VertexCount(), g.EdgeCount())
	return err
}
