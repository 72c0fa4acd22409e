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

// Walks a client's projection and prints the first month each goal amount is
// crossed, next to the goal's target date. Handy when a feasibility result
// looks off: the crossing month shows how far the trajectory really is from
// the target.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: goal_crossing <plan.yaml> [client-id]")
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
	client, err := store.Client(ctx, clientID)
	if err != nil {
		panic(err)
	}
	if len(client.Goals) == 0 {
		fmt.Printf("client %s has no goals\n", clientID)
		return
	}

	analyses := calculation.AnalyzeGoals(client.Goals, projection)

	fmt.Printf("client=%s final=%s horizon=%d-%d\n",
		clientID, projection.FinalValue.StringFixed(2), projection.StartYear(), projection.EndYear())
	fmt.Println("Goal,Amount,TargetAt,ProjectedAtTarget,Gap,Feasible,FirstCrossed")
	for _, ga := range analyses {
		crossed := "never"
		for _, pt := range projection.ProjectionPoints {
			if pt.ProjectedValue.GreaterThanOrEqual(ga.Goal.Amount) {
				crossed = fmt.Sprintf("%04d-%02d", pt.Year, pt.Month)
				break
			}
		}
		fmt.Printf("%s,%s,%s,%s,%s,%t,%s\n",
			ga.Goal.ID,
			ga.Goal.Amount.StringFixed(2),
			ga.Goal.TargetAt.Format("2006-01"),
			ga.ProjectedValue.StringFixed(2),
			ga.Gap.StringFixed(2),
			ga.Feasible,
			crossed,
		)
	}
}
