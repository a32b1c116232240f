package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// StockMovementRepository puerto del log de movimientos (solo append) y de su agregado.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// SumQuantity devuelve el disponible del par (item, tienda): suma de todos sus movimientos, 0 si no hay.
	SumQuantity(ctx context.Context, itemID, storeID string) (int64, error)
	// ListByKey historial del par, más recientes primero.
	ListByKey(ctx context.Context, itemID, storeID string, limit, offset int) ([]*entity.StockMovement, error)
}
