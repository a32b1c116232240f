package dto

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// RecordMovementRequest body para POST /api/inventory/:itemId/movements.
// quantity debe ser entero: un valor fraccionario falla en el parseo del body.
type RecordMovementRequest struct {
	StoreID  string  `json:"store_id"`
	Type     string  `json:"type"`
	Quantity int64   `json:"quantity"`
	Override bool    `json:"override,omitempty"`
	RefType  *string `json:"ref_type,omitempty"`
	RefID    *string `json:"ref_id,omitempty"`
}

// UpdateInventoryRequest body para PATCH /api/inventory/:itemId.
// expected_updated_at es el updated_at leído antes (token de concurrencia optimista).
type UpdateInventoryRequest struct {
	StoreID           string  `json:"store_id"`
	QtyReserved       *int64  `json:"qty_reserved"`
	Bin               *string `json:"bin,omitempty"`
	ExpectedUpdatedAt string  `json:"expected_updated_at"`
}

// InventorySnapshotDTO vista de inventario de un item en una tienda.
type InventorySnapshotDTO struct {
	ItemID      string  `json:"item_id"`
	StoreID     string  `json:"store_id"`
	QtyOnHand   int64   `json:"qty_on_hand"`
	QtyReserved int64   `json:"qty_reserved"`
	Bin         *string `json:"bin"`
	UpdatedAt   string  `json:"updated_at"` // RFC 3339 con microsegundos; se reenvía tal cual como expected_updated_at
}

// StockMovementDTO fila del historial de movimientos.
type StockMovementDTO struct {
	ID       string  `json:"id"`
	ItemID   string  `json:"item_id"`
	StoreID  string  `json:"store_id"`
	Type     string  `json:"type"`
	Quantity int64   `json:"quantity"`
	RefType  *string `json:"ref_type,omitempty"`
	RefID    *string `json:"ref_id,omitempty"`
	UserID   *string `json:"user_id,omitempty"`
	Ts       string  `json:"ts"`
}

// NewInventorySnapshotDTO mapea la entidad a la respuesta HTTP.
func NewInventorySnapshotDTO(s *entity.InventorySnapshot) InventorySnapshotDTO {
	out := InventorySnapshotDTO{
		ItemID:      s.ItemID,
		StoreID:     s.StoreID,
		QtyOnHand:   s.QtyOnHand,
		QtyReserved: s.QtyReserved,
		Bin:         s.Bin,
	}
	if !s.UpdatedAt.IsZero() {
		out.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return out
}

// NewStockMovementDTO mapea un movimiento a la respuesta HTTP.
func NewStockMovementDTO(m *entity.StockMovement) StockMovementDTO {
	return StockMovementDTO{
		ID:       m.ID,
		ItemID:   m.ItemID,
		StoreID:  m.StoreID,
		Type:     m.Type,
		Quantity: m.Quantity,
		RefType:  m.RefType,
		RefID:    m.RefID,
		UserID:   m.UserID,
		Ts:       m.Ts.UTC().Format(time.RFC3339Nano),
	}
}
