package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger: Commit si fn devuelve nil, Rollback en cualquier otra salida.
// Las implementaciones pueden reintentar fn ante conflictos transitorios de serialización,
// por lo que fn no debe tener efectos fuera de los repositorios recibidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.InventoryRecordRepository,
	) error) error
}
