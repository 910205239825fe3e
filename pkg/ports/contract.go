package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	newSnapshot := func(step domain.StepName) *domain.Snapshot {
		return &domain.Snapshot{
			ID:     runID,
			Config: domain.Config{Algorithm: domain.AlgorithmDijkstra, Start: 1, End: domain.NoVertex, Mode: domain.FindReachable},
			Step:   step,
			Frontier: []domain.Record{
				{To: 2, Via: 4, From: 1, Value: 3.5, G: 3.5, Seq: 1},
			},
			Counters: domain.Counters{TreeVertices: 1, UndiscoveredVertices: 9, TotalCost: 0},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(domain.StepGetPlace)

		err := store.Save(ctx, runID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Step, loaded.Step)
		assert.Equal(t, snap.Config, loaded.Config)
		assert.Equal(t, snap.Frontier, loaded.Frontier)
		assert.Equal(t, snap.Counters, loaded.Counters)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, runID, newSnapshot(domain.StepCheckAdded)))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.StepCheckAdded, loaded.Step)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, runID, newSnapshot(domain.StepStart))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, id1, newSnapshot(domain.StepStart))
		_ = store.Save(ctx, id2, newSnapshot(domain.StepStart))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}

// RunGraphProviderContract checks the structural guarantees the engine relies on:
// endpoints in range, non-negative weights, and an adjacency that lists every
// edge under both endpoints (once for a self-loop).
func RunGraphProviderContract(t *testing.T, g GraphProvider, vertices, edges int) {
	t.Run("Counts", func(t *testing.T) {
		assert.Equal(t, vertices, g.VertexCount())
		assert.Equal(t, edges, g.EdgeCount())
	})

	t.Run("Edges", func(t *testing.T) {
		for e := domain.Edge(0); int(e) < g.EdgeCount(); e++ {
			a, b := g.EdgeEndpoints(e)
			require.True(t, int(a) >= 0 && int(a) < g.VertexCount(), "edge %d endpoint %d out of range", e, a)
			require.True(t, int(b) >= 0 && int(b) < g.VertexCount(), "edge %d endpoint %d out of range", e, b)
			assert.GreaterOrEqual(t, g.EdgeWeight(e), 0.0, "edge %d", e)
			assert.Equal(t, b, OtherEnd(g, e, a))
			assert.Equal(t, a, OtherEnd(g, e, b))
		}
	})

	t.Run("Adjacency", func(t *testing.T) {
		seen := make(map[domain.Edge]int, g.EdgeCount())
		for v := domain.Vertex(0); int(v) < g.VertexCount(); v++ {
			for _, e := range g.AdjacentEdges(v) {
				a, b := g.EdgeEndpoints(e)
				assert.True(t, a == v || b == v, "edge %d listed under %d but joins %d-%d", e, v, a, b)
				seen[e]++
			}
		}
		for e := domain.Edge(0); int(e) < g.EdgeCount(); e++ {
			a, b := g.EdgeEndpoints(e)
			want := 2
			if a == b {
				want = 1
			}
			assert.Equal(t, want, seen[e], "edge %d adjacency count", e)
		}
	})
}
