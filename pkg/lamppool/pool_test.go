package lamppool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitSucceeds(t *testing.T) {
	p := New(func(ctx context.Context, lampID, method string, args any) error { return nil })

	err := p.Submit(context.Background(), "lamp-1", "SetState", nil)
	require.NoError(t, err)

	state, ok := p.State("lamp-1")
	require.True(t, ok)
	assert.Equal(t, StateConnected, state)
}

func TestPool_CallsAreSerialPerLamp(t *testing.T) {
	var inFlight int32
	var maxInFlight int32
	var mu sync.Mutex

	p := New(func(ctx context.Context, lampID, method string, args any) error {
		n := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if n > maxInFlight {
			maxInFlight = n
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Submit(context.Background(), "lamp-1", "Tick", nil)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, int32(1), maxInFlight, "at most one outstanding call per lamp")
}

func TestPool_BroadcastIsParallelAcrossLamps(t *testing.T) {
	var seen sync.Map
	p := New(func(ctx context.Context, lampID, method string, args any) error {
		seen.Store(lampID, true)
		return nil
	})

	results := p.Broadcast(context.Background(), []string{"a", "b", "c"}, "On", nil)
	assert.Len(t, results, 3)
	for _, id := range []string{"a", "b", "c"} {
		_, ok := seen.Load(id)
		assert.True(t, ok)
		assert.NoError(t, results[id])
	}
}

func TestPool_RetriesBeforeUnreachable(t *testing.T) {
	var attempts int32
	p := New(func(ctx context.Context, lampID, method string, args any) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("timeout")
	})

	start := time.Now()
	err := p.Submit(context.Background(), "lamp-1", "SetState", nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts), "initial attempt plus two retries")
	assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond, "backoff schedule is 100ms + 400ms")
}

func TestPool_ThreeConsecutiveFailuresDropsConnectedLampToLost(t *testing.T) {
	succeed := int32(1)
	p := New(func(ctx context.Context, lampID, method string, args any) error {
		if atomic.LoadInt32(&succeed) == 1 {
			return nil
		}
		return errors.New("boom")
	})

	require.NoError(t, p.Submit(context.Background(), "lamp-1", "On", nil))
	state, _ := p.State("lamp-1")
	assert.Equal(t, StateConnected, state)

	atomic.StoreInt32(&succeed, 0)
	for i := 0; i < lostAfterFailures; i++ {
		_ = p.Submit(context.Background(), "lamp-1", "On", nil)
	}

	state, _ = p.State("lamp-1")
	assert.Equal(t, StateLost, state)
}

func TestPool_SubmitAsyncReturnsBeforeCompletion(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := New(func(ctx context.Context, lampID, method string, args any) error {
		close(started)
		<-release
		return nil
	})

	done, err := p.SubmitAsync(context.Background(), "lamp-1", "Pulse", nil)
	require.NoError(t, err)

	<-started
	select {
	case <-done:
		t.Fatal("SubmitAsync must not wait for the call to finish")
	default:
	}

	close(release)
	require.NoError(t, <-done)
}

func TestPool_MarkLostThenRecoversOnNextCall(t *testing.T) {
	p := New(func(ctx context.Context, lampID, method string, args any) error { return nil })

	require.NoError(t, p.Submit(context.Background(), "lamp-1", "On", nil))
	p.MarkLost("lamp-1")

	state, _ := p.State("lamp-1")
	assert.Equal(t, StateLost, state)

	require.NoError(t, p.Submit(context.Background(), "lamp-1", "On", nil))
	state, _ = p.State("lamp-1")
	assert.Equal(t, StateConnected, state)
}
