package correlation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFutureResolvesExactlyOnce(t *testing.T) {
	f := NewFuture[CommandResult]()

	require.True(t, f.Resolve(CommandResult{CommandID: "c1", Status: ResultSuccess}))
	require.False(t, f.Resolve(CommandResult{CommandID: "c1", Status: ResultFailed}))

	result, ok := f.TryResult()
	require.True(t, ok)
	require.Equal(t, ResultSuccess, result.Status)
}

func TestFutureWaitBlocksUntilResolved(t *testing.T) {
	f := NewFuture[CommandResult]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Resolve(CommandResult{CommandID: "c1", Status: ResultSuccess})
	}()

	result, err := f.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "c1", result.CommandID)
}

func TestFutureWaitHonorsContext(t *testing.T) {
	f := NewFuture[CommandResult]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFutureTryResultBeforeResolution(t *testing.T) {
	f := NewFuture[CommandResult]()

	_, ok := f.TryResult()
	require.False(t, ok)
}

func TestFutureConcurrentResolution(t *testing.T) {
	f := NewFuture[CommandResult]()

	const racers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		resolved int
	)

	for i := 0; i < racers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			if f.Resolve(CommandResult{CommandID: "c1", Status: ResultStatus(i % 2)}) {
				mu.Lock()
				resolved++
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	require.Equal(t, 1, resolved)
}
