package entity

import "time"

// InventoryRecord es el registro mutable por (ItemID, StoreID): cantidad reservada, ubicación
// y UpdatedAt, que funciona como token de concurrencia optimista.
// QtyOnHand es una copia cacheada que escribe el flujo de movimientos; las lecturas del ledger
// siempre recalculan el disponible desde stock_movements.
type InventoryRecord struct {
	ItemID      string
	StoreID     string
	QtyOnHand   int64
	QtyReserved int64
	Bin         *string
	UpdatedAt   time.Time
}

// InventorySnapshot vista combinada que devuelven todas las operaciones del ledger.
type InventorySnapshot struct {
	ItemID      string
	StoreID     string
	QtyOnHand   int64
	QtyReserved int64
	Bin         *string
	UpdatedAt   time.Time
}

// NewSnapshot une el registro de reserva con el disponible calculado desde el log.
func NewSnapshot(record *InventoryRecord, onHand int64) *InventorySnapshot {
	return &InventorySnapshot{
		ItemID:      record.ItemID,
		StoreID:     record.StoreID,
		QtyOnHand:   onHand,
		QtyReserved: record.QtyReserved,
		Bin:         record.Bin,
		UpdatedAt:   record.UpdatedAt,
	}
}
