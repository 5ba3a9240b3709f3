package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCloser struct {
	name  string
	order *[]string
	err   error
}

func (c *recordingCloser) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestRunStopsOnCancelAndClosesInReverse(t *testing.T) {
	var order []string
	var ticks atomic.Int32

	app := New(nil, nil,
		WithCloser("first", &recordingCloser{name: "first", order: &order}),
		WithCloser("second", &recordingCloser{name: "second", order: &order, err: errors.New("ignored")}),
		WithTask("tick", Every(time.Millisecond, func() { ticks.Add(1) })),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestRunReturnsTaskError(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	app := New(nil, nil,
		WithCloser("res", &recordingCloser{name: "res", order: &order}),
		WithTask("failing", func(context.Context) error { return boom }),
	)

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "task failing")
	assert.Equal(t, []string{"res"}, order)
}

func TestWithCloserIgnoresNil(t *testing.T) {
	app := New(nil, nil, WithCloser("nil", nil))
	assert.Empty(t, app.closers)
}
