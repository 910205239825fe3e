package travspan_test

import (
	"context"
	"fmt"

	"github.com/aretw0/travspan"
	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/domain"
)

func Example() {
	g, _ := memory.NewFromEdges(4,
		memory.EdgeSpec{From: 0, To: 1, Weight: 1},
		memory.EdgeSpec{From: 1, To: 2, Weight: 1},
		memory.EdgeSpec{From: 2, To: 3, Weight: 1},
		memory.EdgeSpec{From: 3, To: 0, Weight: 1},
	)

	eng, _ := travspan.New(g)
	ctx := context.Background()
	_ = eng.Start(ctx, domain.Config{
		Algorithm: domain.AlgorithmDijkstra,
		Start:     0,
		End:       2,
		Mode:      domain.StopAtEnd,
	})
	if _, err := eng.Run(ctx, 0); err != nil {
		fmt.Println("error:", err)
		return
	}

	res, _ := eng.Result()
	fmt.Println(res.Reason)
	fmt.Println(res.Path.Vertices(), res.Path.Cost)
	// Output:
	// found-path
	// [0 3 2] 2
}

func ExampleEngine_RunUntil() {
	g, _ := memory.NewFromEdges(3,
		memory.EdgeSpec{From: 0, To: 1, Weight: 4},
		memory.EdgeSpec{From: 1, To: 2, Weight: 1},
		memory.EdgeSpec{From: 0, To: 2, Weight: 2},
	)

	eng, _ := travspan.New(g)
	ctx := context.Background()
	_ = eng.Start(ctx, domain.Config{Algorithm: domain.AlgorithmPrim, Start: 0})

	hit, _, _ := eng.RunUntil(ctx, travspan.BreakOnVertexAt(domain.StepWasNotAdded, 1), 0)
	snap, _ := eng.Snapshot()
	fmt.Println(hit, snap.Visiting.Via, snap.Counters.TotalCost)
	// Output: true 1 3
}
