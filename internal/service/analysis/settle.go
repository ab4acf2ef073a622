package analysis

import (
	"context"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Outcome is the settled state of one task: either Value or Err is meaningful.
type Outcome[T any] struct {
	Value T
	Err   error
}

// SettleAll runs every task concurrently and waits for all of them. A failing or
// panicking task never affects its siblings. Outcomes keep the order of tasks.
func SettleAll[T any](ctx context.Context, tasks ...func(ctx context.Context) (T, error)) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))

	var wg conc.WaitGroup
	for i, task := range tasks {
		wg.Go(func() {
			var pc panics.Catcher
			pc.Try(func() {
				v, err := task(ctx)
				outcomes[i] = Outcome[T]{Value: v, Err: err}
			})
			if r := pc.Recovered(); r != nil {
				outcomes[i] = Outcome[T]{Err: r.AsError()}
			}
		})
	}
	wg.Wait()

	return outcomes
}
