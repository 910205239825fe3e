package domain_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.Config
		wantErr bool
		mode    domain.StoppingMode
		end     domain.Vertex
	}{
		{"bfs reachable clears end", domain.Config{Algorithm: domain.AlgorithmBFS, Start: 0, End: 3, Mode: domain.FindReachable}, false, domain.FindReachable, domain.NoVertex},
		{"default mode", domain.Config{Algorithm: domain.AlgorithmDFS}, false, domain.FindReachable, domain.NoVertex},
		{"astar defaults to stop at end", domain.Config{Algorithm: domain.AlgorithmAStar, End: 2}, false, domain.StopAtEnd, 2},
		{"astar rejects reachable", domain.Config{Algorithm: domain.AlgorithmAStar, End: 2, Mode: domain.FindReachable}, true, "", 0},
		{"dijkstra rejects find all", domain.Config{Algorithm: domain.AlgorithmDijkstra, Mode: domain.FindAllComponents}, true, "", 0},
		{"prim find all", domain.Config{Algorithm: domain.AlgorithmPrim, Mode: domain.FindAllComponents}, false, domain.FindAllComponents, domain.NoVertex},
		{"start out of range", domain.Config{Algorithm: domain.AlgorithmBFS, Start: 4}, true, "", 0},
		{"end out of range", domain.Config{Algorithm: domain.AlgorithmBFS, End: 4, Mode: domain.StopAtEnd}, true, "", 0},
		{"astar without end", domain.NewConfig(domain.AlgorithmAStar, 2), true, "", 0},
		{"stop at end without end", domain.Config{Algorithm: domain.AlgorithmBFS, End: domain.NoVertex, Mode: domain.StopAtEnd}, true, "", 0},
		{"reachable without end", domain.NewConfig(domain.AlgorithmBFS, 1), false, domain.FindReachable, domain.NoVertex},
		{"unknown algorithm", domain.Config{Algorithm: "bogus"}, true, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := tt.cfg.Validate(4)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, tt.end, got.End)
		})
	}
}

func TestConfig_Validate_EndRequired(t *testing.T) {
	_, _, err := domain.NewConfig(domain.AlgorithmAStar, 0).Validate(4)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.ErrorContains(t, err, "end vertex required")
}

func TestConfig_UnmarshalJSON(t *testing.T) {
	var cfg domain.Config
	require.NoError(t, json.Unmarshal([]byte(`{"algorithm":"astar","start":2}`), &cfg))
	assert.Equal(t, domain.NoVertex, cfg.End)
	assert.Equal(t, domain.Vertex(2), cfg.Start)

	require.NoError(t, json.Unmarshal([]byte(`{"algorithm":"astar","start":2,"end":0}`), &cfg))
	assert.Equal(t, domain.Vertex(0), cfg.End)
	assert.Equal(t, domain.AlgorithmAStar, cfg.Algorithm)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"two"}`), &cfg))
}

func TestConfig_Validate_EmptyGraph(t *testing.T) {
	_, _, err := domain.Config{Algorithm: domain.AlgorithmBFS}.Validate(0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestParseAlgorithm(t *testing.T) {
	a, err := domain.ParseAlgorithm("A*")
	require.NoError(t, err)
	assert.Equal(t, domain.AlgorithmAStar, a)

	_, err = domain.ParseAlgorithm("bellman-ford")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestParseStoppingMode(t *testing.T) {
	m, err := domain.ParseStoppingMode("all")
	require.NoError(t, err)
	assert.Equal(t, domain.FindAllComponents, m)

	m, err = domain.ParseStoppingMode("")
	require.NoError(t, err)
	assert.Equal(t, domain.FindReachable, m)
}

func TestCoordinate_DistanceTo(t *testing.T) {
	// One degree of latitude is ~69.17 miles with this radius.
	a := domain.Coordinate{Lat: 42, Lon: -73}
	b := domain.Coordinate{Lat: 43, Lon: -73}
	assert.InDelta(t, 69.17, a.DistanceTo(b), 0.05)
	assert.Equal(t, 0.0, a.DistanceTo(a))
	assert.InDelta(t, a.DistanceTo(b), b.DistanceTo(a), 1e-9)
}

func TestStepName_EndsIteration(t *testing.T) {
	assert.True(t, domain.StepCheckEndAdded.EndsIteration())
	assert.True(t, domain.StepCleanup.EndsIteration())
	assert.False(t, domain.StepGetPlace.EndsIteration())
	assert.False(t, domain.StepNeighborsLoopIfFalse.EndsIteration())
}

func TestPath_Vertices(t *testing.T) {
	p := domain.Path{Records: []domain.Record{
		{From: 0, To: 1, Via: 0},
		{From: 1, To: 2, Via: 1},
	}}
	assert.Equal(t, []domain.Vertex{0, 1, 2}, p.Vertices())
	assert.Nil(t, domain.Path{}.Vertices())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnStep: func(context.Context, *domain.StepEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnStep:   func(context.Context, *domain.StepEvent) { calls = append(calls, "b") },
		OnFinish: func(context.Context, *domain.RunEvent) { calls = append(calls, "finish") },
	}

	merged := a.Merge(b)
	require.NotNil(t, merged.OnStep)
	require.NotNil(t, merged.OnFinish)
	assert.Nil(t, merged.OnStart)

	merged.OnStep(context.Background(), &domain.StepEvent{})
	merged.OnFinish(context.Background(), &domain.RunEvent{})
	assert.Equal(t, []string{"a", "b", "finish"}, calls)
}
