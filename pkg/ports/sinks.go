package ports

import "github.com/aretw0/travspan/pkg/domain"

// PresentationSink receives the semantic role of every marking.
// It decides colours, icons or nothing at all.
type PresentationSink interface {
	OnVertexMarked(v domain.Vertex, mark domain.Mark)
	OnEdgeMarked(e domain.Edge, mark domain.Mark)
}

// ResultsSink receives the outcome of a run as it is produced.
type ResultsSink interface {
	OnTreeEntryAdded(r domain.Record, seq int)
	OnPathFound(path domain.Path)
	OnRunFinished(reason domain.TerminationReason)
}

// Dispatch forwards a step's events to the sinks. Nil sinks are skipped.
func Dispatch(events []domain.Event, p PresentationSink, r ResultsSink) {
	for _, ev := range events {
		switch ev.Kind {
		case domain.EventVertexMarked:
			if p != nil {
				p.OnVertexMarked(ev.Vertex, ev.Mark)
			}
		case domain.EventEdgeMarked:
			if p != nil {
				p.OnEdgeMarked(ev.Edge, ev.Mark)
			}
		case domain.EventTreeEntryAdded:
			if r != nil && ev.Record != nil {
				r.OnTreeEntryAdded(*ev.Record, ev.Seq)
			}
		case domain.EventPathFound:
			if r != nil && ev.Path != nil {
				r.OnPathFound(*ev.Path)
			}
		case domain.EventRunFinished:
			if r != nil {
				r.OnRunFinished(ev.Reason)
			}
		}
	}
}
