package database

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_MutualExclusion(t *testing.T) {
	gate := NewGate()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := gate.Acquire(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestGate_CancelWhileWaiting(t *testing.T) {
	gate := NewGate()

	release, err := gate.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := gate.Acquire(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("等待者未响应取消")
	}

	// 取消的等待者没有进入临界区，释放后可以正常获取
	release()
	release2, err := gate.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}

func TestGate_Timeout(t *testing.T) {
	gate := NewGate()
	release, err := gate.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = gate.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGate_ReleaseIsIdempotent(t *testing.T) {
	gate := NewGate()

	release, err := gate.Acquire(context.Background())
	require.NoError(t, err)
	release()
	release()

	// 重复释放不会让两个调用者同时进入
	first, err := gate.Acquire(context.Background())
	require.NoError(t, err)
	defer first()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = gate.Acquire(ctx)
	assert.Error(t, err)
}

func TestStore_OperationTimeout(t *testing.T) {
	store := newTestStore(t)
	store.gate = NewGate()
	store.timeout = 20 * time.Millisecond

	release, err := store.gate.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	_, err = store.Accounts.ReadAll(context.Background(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
