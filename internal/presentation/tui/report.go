package tui

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
	"github.com/aretw0/travspan/pkg/runner"
)

const reportTemplate = `# {{ .Config.Algorithm.DisplayName }}

{{ .Reason | toString | replace "-" " " | title }} after **{{ .Result.Counters.Steps }}** steps,
starting at {{ vertex .Config.Start }}{{ if .HasEnd }} with destination {{ vertex .Config.End }}{{ end }}.

| Counter | Value |
|---|---|
| Tree vertices | {{ .Result.Counters.TreeVertices }} |
| Tree edges | {{ .Result.Counters.TreeEdges }} |
| Undiscovered vertices | {{ .Result.Counters.UndiscoveredVertices }} |
| Undiscovered edges | {{ .Result.Counters.UndiscoveredEdges }} |
| Discarded on discovery | {{ .Result.Counters.DiscardedOnDiscovery }} |
| Discarded on removal | {{ .Result.Counters.DiscardedOnRemoval }} |
| Total tree cost | {{ round .Result.TotalCost 3 }} |
{{ with .Result.Path }}
## Path

{{ .Hops }} hops, length {{ round .Cost 3 }}.
{{ range $i, $r := .Records }}
{{ add $i 1 }}. {{ vertex $r.From }} → {{ vertex $r.To }} via {{ edge $r.Via }}
{{- end }}
{{ end }}
{{- if .Result.Components }}
## Components

| # | Vertices | Edges | Cost |
|---|---|---|---|
{{- range .Result.Components }}
| {{ .Index }} | {{ len .Vertices }} | {{ len .Edges }} | {{ round .Cost 3 }} |
{{- end }}
{{ end }}`

var report = template.Must(template.New("report").Funcs(sprig.TxtFuncMap()).Funcs(template.FuncMap{
	"vertex": func(domain.Vertex) string { return "" },
	"edge":   func(domain.Edge) string { return "" },
}).Parse(reportTemplate))

type reportData struct {
	Config domain.Config
	Result domain.Result
	Reason domain.TerminationReason
	HasEnd bool
}

// Markdown describes a finished run as a markdown document.
func Markdown(g ports.GraphProvider, cfg domain.Config, res domain.Result) (string, error) {
	labels, _ := g.(ports.Labeler)
	t, err := report.Clone()
	if err != nil {
		return "", err
	}
	t.Funcs(template.FuncMap{
		"vertex": func(v domain.Vertex) string {
			if labels != nil {
				return fmt.Sprintf("`%s`", labels.VertexLabel(v))
			}
			return fmt.Sprintf("`#%d`", v)
		},
		"edge": func(e domain.Edge) string {
			if labels != nil && labels.EdgeLabel(e) != "" {
				return fmt.Sprintf("`%s`", labels.EdgeLabel(e))
			}
			return fmt.Sprintf("`#%d`", e)
		},
	})

	var b strings.Builder
	if err := t.Execute(&b, reportData{Config: cfg, Result: res, Reason: res.Reason, HasEnd: cfg.End != domain.NoVertex}); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

// Formatter builds the final report of the interactive runner.
// With render set the markdown goes through glamour.
func Formatter(g ports.GraphProvider, cfg func() domain.Config, render func(string) (string, error)) runner.ResultFormatter {
	return func(res domain.Result) (string, error) {
		md, err := Markdown(g, cfg(), res)
		if err != nil || render == nil {
			return md, err
		}
		return render(md)
	}
}
