package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(name string, value int, err error, calls *[]string) Strategy[int] {
	return Strategy[int]{Name: name, Run: func(ctx context.Context) (int, error) {
		*calls = append(*calls, name)
		return value, err
	}}
}

func TestFirstStopsAtFirstSuccess(t *testing.T) {
	var calls []string
	value, res, err := First(context.Background(),
		fixed("query", 0, errors.New("500"), &calls),
		fixed("path", 7, nil, &calls),
		fixed("never", 9, nil, &calls),
	)

	require.NoError(t, err)
	assert.Equal(t, 7, value)
	assert.Equal(t, "path", res.Winner)
	assert.Equal(t, []string{"query", "path"}, calls)
}

func TestFirstSkipsAreNotErrors(t *testing.T) {
	var calls []string
	_, res, err := First(context.Background(),
		fixed("cached", 0, ErrSkip, &calls),
		fixed("embedded", 0, ErrSkip, &calls),
	)

	require.ErrorIs(t, err, ErrNoResult)
	assert.Len(t, res.Attempts, 2)
	assert.True(t, res.Attempts[0].Skipped)
}

func TestFirstCombinesAttemptErrors(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	_, _, err := First(context.Background(), fixed("a", 0, boom, &calls))

	require.ErrorIs(t, err, ErrNoResult)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "a: boom")
}

func TestFirstHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls []string
	_, _, err := First(ctx, fixed("a", 1, nil, &calls))

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}
