package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wpgo/wealth-planner/internal/cache"
	"github.com/wpgo/wealth-planner/internal/calculation"
	"github.com/wpgo/wealth-planner/internal/config"
	"github.com/wpgo/wealth-planner/internal/storage/memory"
)

// Dumps a client's month-by-month fold as CSV so rounding and event timing
// can be inspected by hand.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: trace_projection <plan.yaml> [client-id]")
		return
	}

	parser := config.NewPlanParser()
	plan, err := parser.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	store := memory.New()
	for i := range plan.Clients {
		client := plan.Clients[i]
		if err := store.PutClient(ctx, &client); err != nil {
			panic(err)
		}
	}

	clientID := plan.Clients[0].ID
	if len(os.Args) > 2 {
		clientID = os.Args[2]
	}

	engine := calculation.NewEngine(store, cache.New(0), calculation.NopLogger{})
	projection, err := engine.Project(ctx, clientID)
	if err != nil {
		panic(err)
	}

	fmt.Printf("client=%s initial=%s rate=%s points=%d\n",
		projection.ClientID,
		projection.InitialValue.StringFixed(2),
		projection.AnnualRate.String(),
		len(projection.ProjectionPoints),
	)
	fmt.Println("Year,Month,Value,Delta,Events")
	prev := projection.InitialValue
	for _, pt := range projection.ProjectionPoints {
		events := ""
		for _, ev := range pt.Events {
			if events != "" {
				events += "|"
			}
			events += fmt.Sprintf("%s:%s", ev.Type, ev.Value.StringFixed(2))
		}
		fmt.Printf("%d,%d,%s,%s,%s\n",
			pt.Year, pt.Month,
			pt.ProjectedValue.StringFixed(2),
			pt.ProjectedValue.Sub(prev).StringFixed(2),
			events,
		)
		prev = pt.ProjectedValue
	}
	fmt.Printf("final=%s totalReturn=%s\n", projection.FinalValue.StringFixed(2), projection.TotalReturn.StringFixed(2))
}
