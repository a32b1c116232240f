package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

func serializationErr() error {
	return &pgconn.PgError{Code: sqlstateSerializationFailure, Message: "could not serialize access"}
}

func TestWithRetry_ReintentaSerializacionYTermina(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), RetryPolicy{MaxAttempts: 3}, nil, func() error {
		calls++
		if calls < 3 {
			return serializationErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_AgotaIntentosDevuelveTransitorio(t *testing.T) {
	calls := 0
	var retries []int
	err := withRetry(context.Background(), RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond},
		func(attempt int, _ error) { retries = append(retries, attempt) },
		func() error {
			calls++
			return &pgconn.PgError{Code: sqlstateDeadlockDetected}
		})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransient)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "la causa original sigue accesible")
	assert.Equal(t, sqlstateDeadlockDetected, pgErr.Code)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestWithRetry_ErroresDeNegocioNoSeReintentan(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), RetryPolicy{MaxAttempts: 5}, nil, func() error {
		calls++
		return domain.ErrInsufficientStock
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ErrorEnvueltoSeDetecta(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), RetryPolicy{MaxAttempts: 2}, nil, func() error {
		calls++
		if calls == 1 {
			return errors.Join(errors.New("commit transaction"), serializationErr())
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_ContextoCanceladoCortaBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := withRetry(ctx, RetryPolicy{MaxAttempts: 3, Backoff: time.Hour}, nil, func() error {
		calls++
		return serializationErr()
	})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_MinimoUnIntento(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), RetryPolicy{}, nil, func() error {
		calls++
		return serializationErr()
	})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, 1, calls)
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/pos?sslmode=disable", migrationURL("postgres://u:p@db:5432/pos?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/pos", migrationURL("postgresql://u@db/pos"))
	assert.Equal(t, "pgx5://ya/listo", migrationURL("pgx5://ya/listo"))
}

func TestParseIsolation(t *testing.T) {
	lvl, err := ParseIsolation("")
	require.NoError(t, err)
	assert.EqualValues(t, "read committed", lvl)

	lvl, err = ParseIsolation("serializable")
	require.NoError(t, err)
	assert.EqualValues(t, "serializable", lvl)

	_, err = ParseIsolation("chaos")
	assert.Error(t, err)
}

func TestMigracionesEmbebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_inventory_ledger.up.sql")
	assert.Contains(t, names, "000001_inventory_ledger.down.sql")
}
