package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAtomicGroupAllSucceed(t *testing.T) {
	group := NewAtomicGroup(context.Background())
	var calls int32
	for i := 0; i < 5; i++ {
		group.Add(func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}
	group.Wait()
	require.NoError(t, group.Error())
	require.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestAtomicGroupFirstErrorCancelsSiblings(t *testing.T) {
	group := NewAtomicGroup(context.Background())
	errFailed := errors.New("chain failed")

	group.Add(func(ctx context.Context) error {
		return errFailed
	})
	group.Add(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	done := make(chan struct{})
	go func() {
		group.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "sibling was not cancelled")
	}
	require.ErrorIs(t, group.Error(), errFailed)
}
