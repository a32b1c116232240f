package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, reintentando los
// fallos de serialización y deadlocks según la política configurada.
type TxRunner struct {
	pool   *pgxpool.Pool
	opts   pgx.TxOptions
	policy RetryPolicy
	log    *logger.Logger
}

// NewTxRunner construye el runner con el pool. isolation vacío usa read committed:
// el ledger serializa por clave con SELECT FOR UPDATE y no necesita un nivel más alto.
func NewTxRunner(pool *pgxpool.Pool, isolation pgx.TxIsoLevel, policy RetryPolicy, log *logger.Logger) *TxRunner {
	if isolation == "" {
		isolation = pgx.ReadCommitted
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{
		pool:   pool,
		opts:   pgx.TxOptions{IsoLevel: isolation},
		policy: policy,
		log:    log.Component("tx_runner"),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Un conflicto transitorio (40001/40P01) repite la transacción completa; agotados los intentos
// devuelve domain.ErrTransient.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recordRepo repository.InventoryRecordRepository,
) error) error {
	onRetry := func(attempt int, err error) {
		r.log.Warn().Err(err).Int("attempt", attempt).Msg("conflicto de transacción, reintentando")
	}
	return withRetry(ctx, r.policy, onRetry, func() error {
		return r.runOnce(ctx, fn)
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recordRepo repository.InventoryRecordRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, r.opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	recordRepo := NewInventoryRecordRepository(tx)

	if err := fn(movRepo, recordRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ParseIsolation traduce el valor de configuración al nivel de pgx.
func ParseIsolation(s string) (pgx.TxIsoLevel, error) {
	switch s {
	case "", "read_committed":
		return pgx.ReadCommitted, nil
	case "repeatable_read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	}
	return "", fmt.Errorf("nivel de aislamiento desconocido: %q", s)
}
