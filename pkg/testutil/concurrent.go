// Package testutil holds shared test helpers.
package testutil

import (
	"sync"
	"sync/atomic"

	dErrors "stride/pkg/domain-errors"
)

// ConcurrentResult buckets the outcomes of RunConcurrent by domain error code.
type ConcurrentResult struct {
	Successes int32
	Errors    int32
	InFlight  int32
	NotFounds int32
}

func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.InFlight + r.NotFounds
}

// RunConcurrent runs fn from the given number of goroutines at once and
// counts outcomes. Store race tests use it to assert how many callers were
// turned away with an in-flight rejection.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, inFlight, notFounds atomic.Int32

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(idx int) {
			defer wg.Done()
			switch err := fn(idx); {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeInFlight):
				inFlight.Add(1)
			case dErrors.HasCode(err, dErrors.CodeNotFound):
				notFounds.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}
	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Errors:    errs.Load(),
		InFlight:  inFlight.Load(),
		NotFounds: notFounds.Load(),
	}
}
