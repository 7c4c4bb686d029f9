package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()
	ctx := context.Background()

	unlock, err := k.Lock(ctx, "c1")
	require.NoError(t, err)

	t.Run("Other keys are independent", func(t *testing.T) {
		unlockOther, err := k.Lock(ctx, "c2")
		require.NoError(t, err)
		unlockOther()
	})

	t.Run("Waiter gives up when its context ends", func(t *testing.T) {
		waitCtx, cancel := context.WithTimeout(ctx, 5*time.Millisecond)
		defer cancel()
		_, err := k.Lock(waitCtx, "c1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	unlock()
	assert.Equal(t, 0, k.len())

	unlock, err = k.Lock(ctx, "c1")
	require.NoError(t, err)
	unlock()
	assert.Equal(t, 0, k.len())
}
