package knowledge

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := newKeyedMutex()

	keys := []string{"jo@x.com", "al@y.com"}
	counters := make([]int, len(keys))
	var wg sync.WaitGroup

	for n := 0; n < 50; n++ {
		for i, key := range keys {
			wg.Add(1)
			go func(i int, key string) {
				defer wg.Done()
				unlock := km.Lock(key)
				defer unlock()
				counters[i]++
			}(i, key)
		}
	}

	wg.Wait()

	assert.Equal(t, []int{50, 50}, counters)
}
