package dto

import "github.com/jhoicas/pos-ledger/internal/application/inventory"

// Códigos de error estables de la API; los clientes ramifican por Code, no por Message.
const (
	CodeInvalidBody       = "INVALID_BODY"
	CodeInvalidQuery      = "INVALID_QUERY"
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeVersionConflict   = "VERSION_CONFLICT"
	CodeTransient         = "TRANSIENT"
	CodeInternal          = "INTERNAL"
)

// PageRequest paginación del historial de movimientos.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica el límite por defecto y acota Limit/Offset al rango admitido.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = inventory.DefaultMovementLimit
	}
	if p.Limit > inventory.MaxMovementLimit {
		p.Limit = inventory.MaxMovementLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
