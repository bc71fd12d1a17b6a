package concurrencylimiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcquireBoundsConcurrency(t *testing.T) {
	ctx := With(context.Background(), 2)

	var mu sync.Mutex
	count, maxCount := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := Acquire(ctx)
			defer release()

			mu.Lock()
			count++
			if count > maxCount {
				maxCount = count
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			count--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, maxCount, 2)
}

func TestAcquireWithoutLimiterIsNoop(t *testing.T) {
	release := Acquire(context.Background())
	release()
}

func TestWithZeroIsUnbounded(t *testing.T) {
	ctx := With(context.Background(), 0)
	release := Acquire(ctx)
	release2 := Acquire(ctx)
	release()
	release2()
}
