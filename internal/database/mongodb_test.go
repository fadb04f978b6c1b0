package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	want := &mongo.Client{}
	got, err := Retry(context.Background(), 5, time.Millisecond, func(ctx context.Context) (*mongo.Client, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("server selection timeout")
		}
		return want, nil
	})
	require.NoError(t, err)
	require.Same(t, want, got)
	require.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	cause := errors.New("connection refused")
	calls := 0
	_, err := Retry(context.Background(), 3, time.Millisecond, func(ctx context.Context) (*mongo.Client, error) {
		calls++
		return nil, cause
	})
	require.ErrorIs(t, err, cause)
	require.Equal(t, 3, calls)
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Retry(ctx, 3, time.Hour, func(ctx context.Context) (*mongo.Client, error) {
		return nil, errors.New("down")
	})
	require.ErrorIs(t, err, context.Canceled)
}
