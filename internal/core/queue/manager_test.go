package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"snap-pantry/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsJobsOneAtATime(t *testing.T) {
	m := NewManager(100)
	defer m.Close()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		counter int
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Submit(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				// 讀改寫，若並行會遺失更新
				v := counter
				time.Sleep(time.Millisecond)
				counter = v + 1

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 20, counter)
	assert.Equal(t, 20, m.GetQueueStatus().ProcessedCount)
}

func TestSubmitReturnsJobError(t *testing.T) {
	m := NewManager(1)
	defer m.Close()

	boom := errors.New("boom")
	err := m.Submit(context.Background(), func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestEnqueueAfterClose(t *testing.T) {
	m := NewManager(1)
	m.Close()

	_, err := m.Enqueue(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, common.ErrQueueClosed)
}

func TestEnqueueFullQueue(t *testing.T) {
	m := NewManager(1)
	defer m.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	_, err := m.Enqueue(context.Background(), func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)
	<-started

	// worker 忙碌中，緩衝區可容納一個
	_, err = m.Enqueue(context.Background(), func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	_, err = m.Enqueue(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, common.ErrQueueFull)

	close(release)
}

func TestCancelledContextSkipsJob(t *testing.T) {
	m := NewManager(1)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := m.Submit(ctx, func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, ran)
}
