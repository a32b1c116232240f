package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// InventoryRecordRepository puerto del registro de reserva/ubicación por (item, tienda).
// Get y UpdateReservation devuelven (nil, nil) cuando no hay fila que coincida.
type InventoryRecordRepository interface {
	Get(ctx context.Context, itemID, storeID string) (*entity.InventoryRecord, error)
	// LockForUpdate crea la fila si no existe (reserva 0) y la bloquea hasta el fin de la transacción.
	// Es el punto de serialización por clave del flujo de movimientos.
	LockForUpdate(ctx context.Context, itemID, storeID string) (*entity.InventoryRecord, error)
	// Touch guarda el disponible cacheado y avanza UpdatedAt sin tocar la reserva.
	Touch(ctx context.Context, itemID, storeID string, onHand int64) (*entity.InventoryRecord, error)
	// UpdateReservation escribe reserva y bin solo si UpdatedAt sigue siendo expectedVersion.
	// bin nil conserva el valor actual.
	UpdateReservation(ctx context.Context, itemID, storeID string, reserved int64, bin *string, expectedVersion time.Time) (*entity.InventoryRecord, error)
	ListByStore(ctx context.Context, storeID string) ([]*entity.InventoryRecord, error)
}
