package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireIsExclusivePerKey(t *testing.T) {
	ctx := context.Background()
	keyed := NewKeyed(time.Second)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := keyed.Acquire(ctx, "emp-1")
			if err != nil {
				t.Error(err)
				return
			}
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, keyed.Len())
}

func TestAcquireDifferentKeysDoNotBlock(t *testing.T) {
	ctx := context.Background()
	keyed := NewKeyed(50 * time.Millisecond)

	releaseA, err := keyed.Acquire(ctx, "emp-1")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := keyed.Acquire(ctx, "emp-2")
	require.NoError(t, err)
	defer releaseB()

	assert.Equal(t, 2, keyed.Len())
}

func TestAcquireTimesOutWhileHeld(t *testing.T) {
	ctx := context.Background()
	keyed := NewKeyed(20 * time.Millisecond)

	release, err := keyed.Acquire(ctx, "emp-1")
	require.NoError(t, err)
	defer release()

	_, err = keyed.Acquire(ctx, "emp-1")
	assert.ErrorIs(t, err, ErrAcquireTimeout)
}

func TestAcquireHonorsCallerContext(t *testing.T) {
	keyed := NewKeyed(time.Minute)

	release, err := keyed.Acquire(context.Background(), "emp-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = keyed.Acquire(ctx, "emp-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReleaseIsSafeToCallTwice(t *testing.T) {
	ctx := context.Background()
	keyed := NewKeyed(time.Second)

	release, err := keyed.Acquire(ctx, "emp-1")
	require.NoError(t, err)
	release()
	release()

	again, err := keyed.Acquire(ctx, "emp-1")
	require.NoError(t, err)
	again()

	assert.Equal(t, 0, keyed.Len())
}
