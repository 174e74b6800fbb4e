package contextx

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoValue = errors.New("no value in context")

func fromContext[T any](ctx context.Context, key any, label string) (T, error) {
	value, ok := ctx.Value(key).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", label, ErrNoValue)
	}

	return value, nil
}
