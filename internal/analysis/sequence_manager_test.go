package analysis

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceManager_Next(t *testing.T) {
	sm := NewSequenceManager()
	assert.Equal(t, int64(0), sm.GetCurrent())

	assert.Equal(t, int64(1), sm.Next())
	assert.Equal(t, int64(2), sm.Next())
	assert.Equal(t, int64(2), sm.GetCurrent())
}

func TestSequenceManager_ConcurrentSafety(t *testing.T) {
	sm := NewSequenceManager()
	const workers = 50
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, perWorker)
			for j := range local {
				local[j] = sm.Next()
			}
			mu.Lock()
			for _, v := range local {
				if seen[v] {
					t.Errorf("duplicate version %d", v)
				}
				seen[v] = true
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), sm.GetCurrent())
}
