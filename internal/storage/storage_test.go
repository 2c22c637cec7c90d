package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("deadline is tagged as timeout", func(t *testing.T) {
		err := Wrap("op", fmt.Errorf("query: %w", context.DeadlineExceeded))

		assert.ErrorIs(t, err, ErrTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("timeout is not tagged twice", func(t *testing.T) {
		err := Wrap("outer", Wrap("inner", context.DeadlineExceeded))

		assert.Equal(t, "outer: inner: storage operation timed out: context deadline exceeded", err.Error())
	})

	t.Run("other errors pass through", func(t *testing.T) {
		err := Wrap("op", ErrBookingNotFound)

		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.False(t, errors.Is(err, ErrTimeout))
		assert.Equal(t, "op: booking is not found", err.Error())
	})
}
