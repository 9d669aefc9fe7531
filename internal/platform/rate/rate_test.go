// internal/platform/rate/rate_test.go
package rate

import (
	"context"
	"sync"
	"testing"
	"time"

	"hermesx/internal/testutil"
)

func TestWaitEnforcesSpacing(t *testing.T) {
	const interval = 50 * time.Millisecond
	l := NewOriginLimiter(interval)
	ctx := context.Background()

	start := time.Now()
	testutil.AssertNoError(t, l.Wait(ctx, "https://a.example"), "first wait")
	testutil.AssertNoError(t, l.Wait(ctx, "https://a.example"), "second wait")
	gap := time.Since(start)

	testutil.AssertTrue(t, gap >= interval, "second request must wait the full interval")
}

func TestWaitDistinctOriginsDoNotBlock(t *testing.T) {
	l := NewOriginLimiter(200 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	testutil.AssertNoError(t, l.Wait(ctx, "https://a.example"), "origin a")
	testutil.AssertNoError(t, l.Wait(ctx, "https://b.example"), "origin b")

	testutil.AssertTrue(t, time.Since(start) < 100*time.Millisecond,
		"different origins must not queue behind each other")
	testutil.AssertEqual(t, l.Origins(), 2, "two origins tracked")
}

func TestWaitConcurrentSameOrigin(t *testing.T) {
	const interval = 30 * time.Millisecond
	l := NewOriginLimiter(interval)
	ctx := context.Background()

	const n = 4
	starts := make([]time.Time, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := l.Wait(ctx, "https://a.example"); err != nil {
				t.Errorf("wait %d: %v", i, err)
				return
			}
			starts[i] = time.Now()
		}(i)
	}
	wg.Wait()

	// Sort the observed start times and check pairwise gaps. A small slack
	// absorbs timer scheduling jitter.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if starts[j].Before(starts[i]) {
				starts[i], starts[j] = starts[j], starts[i]
			}
		}
	}
	const slack = 5 * time.Millisecond
	for i := 1; i < n; i++ {
		gap := starts[i].Sub(starts[i-1])
		testutil.AssertTrue(t, gap >= interval-slack, "concurrent callers must be serialized")
	}
}

func TestWaitZeroIntervalNeverBlocks(t *testing.T) {
	l := NewOriginLimiter(0)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		testutil.AssertNoError(t, l.Wait(ctx, "https://a.example"), "zero interval")
	}
}

func TestWaitHonorsContextCancel(t *testing.T) {
	l := NewOriginLimiter(time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	testutil.AssertNoError(t, l.Wait(ctx, "https://a.example"), "first slot is immediate")

	done := make(chan error, 1)
	go func() { done <- l.Wait(ctx, "https://a.example") }()
	cancel()

	select {
	case err := <-done:
		testutil.AssertError(t, err, "canceled wait should return the context error")
	case <-time.After(500 * time.Millisecond):
		t.Fatal("wait did not observe cancellation")
	}
}
