package picks

import (
	"sync"
	"testing"
	"time"

	"quantumbetlab/web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_EmptyBeforePublish(t *testing.T) {
	b := NewBoard()
	assert.Nil(t, b.Load())
	assert.Empty(t, b.Picks())
}

func TestBoard_PublishReplacesWholesale(t *testing.T) {
	b := NewBoard()

	first := models.NewSnapshot([]models.Pick{{Market: "a", Score: 1}}, time.Now())
	b.Publish(first)
	require.Same(t, first, b.Load())

	second := models.NewSnapshot(nil, time.Now())
	b.Publish(second)
	assert.Same(t, second, b.Load())
	assert.Empty(t, b.Picks())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBoard_ConcurrentReaders(t *testing.T) {
	b := NewBoard()
	done := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if s := b.Load(); s != nil {
					// a reader never sees a half-written snapshot
					assert.Equal(t, s.MatchesScanned, len(s.Picks))
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		snap := models.NewSnapshot(make([]models.Pick, i%TopN), time.Now())
		snap.MatchesScanned = i % TopN
		b.Publish(snap)
	}
	close(done)
	wg.Wait()

	assert.NotNil(t, b.Load())
}
