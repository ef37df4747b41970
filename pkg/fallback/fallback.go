// Package fallback runs an ordered list of alternative ways to obtain a value
// and keeps the first one that works.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrSkip is returned by a strategy that does not apply to the current input.
	ErrSkip = errors.New("strategy not applicable")
	// ErrNoResult is returned when every strategy failed or was skipped.
	ErrNoResult = errors.New("no strategy produced a result")
)

// Strategy is one named attempt.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Attempt records how a strategy ended.
type Attempt struct {
	Name    string
	Skipped bool
	Err     error
}

// Result describes which strategy produced the value.
type Result struct {
	Winner   string
	Attempts []Attempt
}

// First runs strategies in order and returns the value of the first one that
// succeeds. When none succeeds the returned error wraps ErrNoResult together
// with every attempt error. A cancelled context stops the chain immediately.
func First[T any](ctx context.Context, strategies ...Strategy[T]) (T, Result, error) {
	var (
		zero   T
		result Result
		errs   error
	)

	for _, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return zero, result, err
		}
		if strategy.Run == nil {
			continue
		}

		value, err := strategy.Run(ctx)
		if err == nil {
			result.Winner = strategy.Name
			result.Attempts = append(result.Attempts, Attempt{Name: strategy.Name})
			return value, result, nil
		}

		if errors.Is(err, ErrSkip) {
			result.Attempts = append(result.Attempts, Attempt{Name: strategy.Name, Skipped: true})
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, result, ctxErr
		}
		result.Attempts = append(result.Attempts, Attempt{Name: strategy.Name, Err: err})
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", strategy.Name, err))
	}

	if errs == nil {
		return zero, result, ErrNoResult
	}
	return zero, result, multierr.Combine(ErrNoResult, errs)
}
