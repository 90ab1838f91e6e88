// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// RetryPolicy gobierna los reintentos contra el proveedor de geocoding.
type RetryPolicy struct {
	// MaxAttempts es el total de intentos, incluyendo el primero.
	MaxAttempts int
	// AttemptTimeout acota cada intento individual.
	AttemptTimeout time.Duration
	// Backoff devuelve la espera después del intento fallido n (1-based).
	Backoff func(attempt int) time.Duration
}

// DefaultRetryPolicy son 2 intentos de 10s con backoff lineal de 1s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    2,
		AttemptTimeout: 10 * time.Second,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
}

// withRetry ejecuta call hasta MaxAttempts veces. Entre intentos espera según
// Backoff usando el reloj inyectado, y corta de inmediato si el contexto
// padre se cancela. Devuelve el último error si todos los intentos fallan.
func withRetry[T any](ctx context.Context, clock clockwork.Clock, policy RetryPolicy,
	call func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
		v, err := call(attemptCtx)
		cancel()

		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt < policy.MaxAttempts {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-clock.After(policy.Backoff(attempt)):
			}
		}
	}

	return zero, lastErr
}
