package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Algorithm selects the traversal discipline and priority policy of a run.
type Algorithm string

const (
	AlgorithmBFS      Algorithm = "bfs"
	AlgorithmDFS      Algorithm = "dfs"
	AlgorithmRFS      Algorithm = "rfs"
	AlgorithmDijkstra Algorithm = "dijkstra"
	AlgorithmAStar    Algorithm = "astar"
	AlgorithmPrim     Algorithm = "prim"
)

// Algorithms lists every supported algorithm in display order.
var Algorithms = []Algorithm{
	AlgorithmBFS, AlgorithmDFS, AlgorithmRFS, AlgorithmDijkstra, AlgorithmAStar, AlgorithmPrim,
}

// DisplayName returns the human readable name of the algorithm.
func (a Algorithm) DisplayName() string {
	switch a {
	case AlgorithmBFS:
		return "Breadth-First Search"
	case AlgorithmDFS:
		return "Depth-First Search"
	case AlgorithmRFS:
		return "Random-First Search"
	case AlgorithmDijkstra:
		return "Dijkstra's Algorithm"
	case AlgorithmAStar:
		return "A* Search"
	case AlgorithmPrim:
		return "Prim's Algorithm"
	}
	return string(a)
}

// Short returns the abbreviation used in step messages.
func (a Algorithm) Short() string {
	switch a {
	case AlgorithmBFS, AlgorithmDFS, AlgorithmRFS:
		return strings.ToUpper(string(a))
	case AlgorithmDijkstra:
		return "Dijkstra"
	case AlgorithmAStar:
		return "A*"
	case AlgorithmPrim:
		return "Prim"
	}
	return string(a)
}

// ParseAlgorithm accepts the canonical names plus a few common aliases.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bfs", "breadth-first":
		return AlgorithmBFS, nil
	case "dfs", "depth-first":
		return AlgorithmDFS, nil
	case "rfs", "random-first":
		return AlgorithmRFS, nil
	case "dijkstra":
		return AlgorithmDijkstra, nil
	case "astar", "a*", "a-star":
		return AlgorithmAStar, nil
	case "prim":
		return AlgorithmPrim, nil
	}
	return "", fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfiguration, s)
}

// FrontierKind names the ordering discipline of a frontier.
type FrontierKind string

const (
	FrontierQueue    FrontierKind = "queue"
	FrontierStack    FrontierKind = "stack"
	FrontierRandom   FrontierKind = "random"
	FrontierPriority FrontierKind = "priority"
)

// StoppingMode decides when a run terminates.
type StoppingMode string

const (
	StopAtEnd         StoppingMode = "stop-at-end"
	FindReachable     StoppingMode = "find-reachable"
	FindAllComponents StoppingMode = "find-all"
)

// ParseStoppingMode accepts the canonical names and the HDX option values.
func ParseStoppingMode(s string) (StoppingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stop-at-end", "stopatend", "end":
		return StopAtEnd, nil
	case "find-reachable", "findreachable", "component", "":
		return FindReachable, nil
	case "find-all", "findall", "find-all-components", "all":
		return FindAllComponents, nil
	}
	return "", fmt.Errorf("%w: unknown stopping mode %q", ErrInvalidConfiguration, s)
}

// Capabilities is the per-algorithm record that replaces algorithm-specific subclasses.
type Capabilities struct {
	Frontier FrontierKind
	Modes    []StoppingMode
	// RequiresEnd is true when the algorithm cannot run without a destination vertex.
	RequiresEnd bool
}

// Supports reports whether the stopping mode is allowed.
func (c Capabilities) Supports(m StoppingMode) bool {
	return slices.Contains(c.Modes, m)
}

// CapabilitiesOf returns the capability record of an algorithm.
func CapabilitiesOf(a Algorithm) (Capabilities, error) {
	all := []StoppingMode{StopAtEnd, FindReachable, FindAllComponents}
	switch a {
	case AlgorithmBFS:
		return Capabilities{Frontier: FrontierQueue, Modes: all}, nil
	case AlgorithmDFS:
		return Capabilities{Frontier: FrontierStack, Modes: all}, nil
	case AlgorithmRFS:
		return Capabilities{Frontier: FrontierRandom, Modes: all}, nil
	case AlgorithmPrim:
		return Capabilities{Frontier: FrontierPriority, Modes: all}, nil
	case AlgorithmDijkstra:
		return Capabilities{Frontier: FrontierPriority, Modes: []StoppingMode{StopAtEnd, FindReachable}}, nil
	case AlgorithmAStar:
		return Capabilities{Frontier: FrontierPriority, Modes: []StoppingMode{StopAtEnd}, RequiresEnd: true}, nil
	}
	return Capabilities{}, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfiguration, a)
}
