package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Administración del ledger de inventario POS",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newMigrateCmd(),
		newInventoryCmd(),
		newMovementCmd(),
		newReservationCmd(),
		newTokenCmd(),
	)
	return root
}

// ledgerEnv dependencias de los comandos que tocan la base de datos.
type ledgerEnv struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	ledger *inventory.LedgerUseCase
}

func (e *ledgerEnv) Close() {
	e.pool.Close()
}

// openLedger arma el caso de uso igual que la API. Los logs van a stderr para no mezclarse con la salida.
func openLedger(ctx context.Context) (*ledgerEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	isolation, err := postgres.ParseIsolation(cfg.Ledger.TxIsolation)
	if err != nil {
		pool.Close()
		return nil, err
	}
	txRunner := postgres.NewTxRunner(pool, isolation, postgres.RetryPolicy{
		MaxAttempts: cfg.Ledger.TxMaxAttempts,
		Backoff:     cfg.Ledger.TxBackoff,
	}, log)
	ledger := inventory.NewLedgerUseCase(
		txRunner,
		postgres.NewStockMovementRepository(pool),
		postgres.NewInventoryRecordRepository(pool),
		log,
	)
	return &ledgerEnv{cfg: cfg, pool: pool, ledger: ledger}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
