package entity

import "time"

// Tipos de movimiento habituales. El ledger no los valida contra un enum cerrado:
// cualquier texto no vacío es aceptado (devoluciones, mermas, conteos, etc.).
const (
	MovementTypeReceipt        = "receipt"
	MovementTypeSale           = "sale"
	MovementTypeInitialBalance = "initial_balance"
	MovementTypeAdjustment     = "adjustment"
	MovementTypeReturn         = "return"
)

// StockMovement es una fila inmutable del log de movimientos (solo se agregan, nunca se editan).
// La suma de Quantity de todas las filas de un (ItemID, StoreID) es el stock disponible.
type StockMovement struct {
	ID       string
	ItemID   string
	StoreID  string
	Type     string
	Quantity int64 // positivo suma stock, negativo lo resta
	RefType  *string
	RefID    *string
	UserID   *string // nil para movimientos generados por el sistema
	Ts       time.Time
}
