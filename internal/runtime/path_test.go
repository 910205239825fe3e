package runtime_test

import (
	"testing"

	"github.com/aretw0/travspan/internal/runtime"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestReconstructPath(t *testing.T) {
	weight := func(e domain.Edge) float64 { return float64(e) + 1 }
	tree := []domain.Record{
		{To: 0, Via: domain.NoEdge, From: domain.NoVertex},
		{To: 1, Via: 0, From: 0},
		{To: 2, Via: 4, From: 0},
		{To: 3, Via: 2, From: 1},
		{To: 4, Via: 3, From: 3},
	}

	p := runtime.ReconstructPath(tree, 0, 4, weight)
	assert.Equal(t, []domain.Vertex{0, 1, 3, 4}, p.Vertices())
	assert.Equal(t, 3, p.Hops)
	assert.Equal(t, 1.0+3.0+4.0, p.Cost)

	p = runtime.ReconstructPath(tree, 0, 0, weight)
	assert.Zero(t, p.Hops)
	assert.Empty(t, p.Records)

	p = runtime.ReconstructPath(tree, 0, 9, weight)
	assert.Zero(t, p.Hops)
	assert.Empty(t, p.Records)
}
