package ops

import (
	"context"
	"sort"
	"sync"
)

// RunDeleter is the server operation bulk deletion is built on.
type RunDeleter interface {
	DeleteRun(runID string) error
}

// DeleteResult is the settled outcome of a batch delete. The batch succeeds
// or fails as a whole from the user's point of view, but Deleted records the
// ids whose server-side delete actually went through so local state can be
// cleaned up best-effort even on a failed batch.
type DeleteResult struct {
	Deleted []string
	Failed  int
	LastErr error
}

func (r DeleteResult) OK() bool { return r.Failed == 0 }

// DeleteRuns issues delete requests for all ids concurrently and waits for
// every one to settle. Deletes are idempotent server-side, so a failed batch
// is safe to retry wholesale.
func DeleteRuns(ctx context.Context, client RunDeleter, runIDs []string) DeleteResult {
	var mu sync.Mutex
	var result DeleteResult

	sem := make(chan struct{}, 3)
	var wg sync.WaitGroup
	for _, id := range runIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				mu.Lock()
				result.Failed++
				result.LastErr = err
				mu.Unlock()
				return
			}
			if err := client.DeleteRun(id); err != nil {
				mu.Lock()
				result.Failed++
				result.LastErr = err
				mu.Unlock()
				return
			}
			mu.Lock()
			result.Deleted = append(result.Deleted, id)
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	sort.Strings(result.Deleted)
	return result
}
