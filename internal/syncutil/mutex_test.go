package syncutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutex_SerialisesCriticalSections(t *testing.T) {
	t.Parallel()

	var (
		mu    Mutex
		wg    sync.WaitGroup
		count int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			count++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
}
