/*
Package travspan is a steppable engine for graph traversal and spanning-tree algorithms.

It runs breadth-first, depth-first and random-first search, Dijkstra's algorithm,
A* and Prim's algorithm on one shared skeleton: a frontier of discovered records,
added/discovered markers, and a sequence of named micro-steps that callers advance
one at a time. Every run can be paused after any step, inspected through a Snapshot,
and resumed.

# Concept

The engine never draws anything. Each step emits semantic events (a vertex became
"visiting", an edge was "discarded on discovery", a path was found) that are forwarded
to a PresentationSink and a ResultsSink. Graph data comes from a GraphProvider. This
Hexagonal Architecture lets the same engine drive a terminal trace, an HTTP API, an
MCP tool or a test.

# Key Features

  - Six algorithms behind one state machine, selected by a capability record.
  - Three stopping modes: stop at an end vertex, find the reachable component,
    or find every component (a spanning forest).
  - Single-step, iteration, breakpoint and run-to-completion control.
  - Deterministic: the random frontier draws from a seeded source.

# Usage

	g, _ := memory.NewFromEdges(4,
		memory.EdgeSpec{From: 0, To: 1, Weight: 1},
		memory.EdgeSpec{From: 1, To: 2, Weight: 1},
	)

	eng, _ := travspan.New(g)
	ctx := context.Background()
	if err := eng.Start(ctx, domain.Config{
		Algorithm: domain.AlgorithmDijkstra,
		Start:     0,
		End:       2,
		Mode:      domain.StopAtEnd,
	}); err != nil {
		log.Fatal(err)
	}

	for !eng.IsDone() {
		step, err := eng.Step(ctx)
		if err != nil {
			log.Fatal(err)
		}
		log.Println(step)
	}

	res, _ := eng.Result()
	log.Println(res.Path.Cost, res.Path.Hops)
*/
package travspan
