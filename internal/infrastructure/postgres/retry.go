package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

// RetryPolicy reintentos de una transacción ante conflictos transitorios.
type RetryPolicy struct {
	MaxAttempts int           // intentos totales, mínimo 1
	Backoff     time.Duration // espera antes del segundo intento; se duplica en cada uno
}

// withRetry ejecuta fn hasta MaxAttempts veces mientras falle con un error reintentable.
// Agotados los intentos devuelve domain.ErrTransient envolviendo la última causa.
// Los demás errores se devuelven sin tocar en el primer intento.
func withRetry(ctx context.Context, p RetryPolicy, onRetry func(attempt int, err error), fn func() error) error {
	attempts := max(p.MaxAttempts, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		wait := p.Backoff << (attempt - 1)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w: %w", domain.ErrTransient, ctx.Err())
			case <-timer.C:
			}
		}
	}
	return fmt.Errorf("%w tras %d intentos: %w", domain.ErrTransient, attempts, err)
}
