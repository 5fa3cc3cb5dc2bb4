package resolver

//
// Parallel resolution
//

import (
	"context"
	"sync"
	"time"

	"github.com/fasthosts/fasthosts/internal/model"
)

// MaxParallelAttempts is the maximum number of concurrent resolution attempts.
const MaxParallelAttempts = 5

// DefaultAttemptTimeout is the default timeout of each resolution attempt.
const DefaultAttemptTimeout = 5 * time.Second

// attemptResult is the result of a single resolution attempt.
type attemptResult struct {
	index int
	addrs []string
	err   error
}

// ParallelLookup resolves domain using all the given resolvers concurrently,
// with at most [MaxParallelAttempts] attempts in flight, each bounded by
// timeout. Failed attempts contribute no addresses. The result contains the
// unique IPv4 addresses in resolver order and is empty, never nil, when all
// the attempts fail.
func ParallelLookup(ctx context.Context, logger model.Logger, domain string,
	timeout time.Duration, resolvers ...model.Resolver) []string {
	logger = model.ValidLoggerOrDefault(logger)
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	// feed the workers
	inputs := make(chan int)
	go func() {
		defer close(inputs)
		for idx := range resolvers {
			inputs <- idx
		}
	}()

	// spawn the workers
	parallelism := min(MaxParallelAttempts, len(resolvers))
	results := make(chan *attemptResult)
	wg := &sync.WaitGroup{}
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range inputs {
				addrs, err := lookupWithTimeout(ctx, resolvers[idx], domain, timeout)
				results <- &attemptResult{index: idx, addrs: addrs, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// collect in completion order, merge in resolver order
	byIndex := make([][]string, len(resolvers))
	for res := range results {
		if res.err != nil {
			logger.Debugf("resolver: attempt #%d for %s failed: %s", res.index, domain, res.err.Error())
			continue
		}
		byIndex[res.index] = res.addrs
	}
	var merged []string
	for _, addrs := range byIndex {
		merged = append(merged, addrs...)
	}
	return filterIPv4(merged)
}

// lookupWithTimeout returns after timeout even when the resolver does not
// honour the context, in which case the late result is discarded.
func lookupWithTimeout(ctx context.Context, reso model.Resolver,
	domain string, timeout time.Duration) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	done := make(chan *attemptResult, 1)
	go func() {
		addrs, err := reso.LookupA(ctx, domain)
		done <- &attemptResult{addrs: addrs, err: err}
	}()
	select {
	case res := <-done:
		return res.addrs, res.err
	case <-ctx.Done():
		return nil, ErrLookupTimeout
	}
}
