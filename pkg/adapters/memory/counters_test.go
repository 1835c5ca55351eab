package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/switchboard/pkg/ports"
)

func TestCounters_Contract(t *testing.T) {
	ports.RunCounterStoreContract(t, NewCounters())
}

func TestCounters_ConcurrentIncrements(t *testing.T) {
	counters := NewCounters()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = counters.Incr(ctx, "hits", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), counters.Value("hits"))
}
