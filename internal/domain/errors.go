package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los devuelven envueltos con %w; los llamadores usan errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrVersionConflict   = errors.New("la versión del registro de inventario cambió")
	// ErrTransient conflicto de serialización/deadlock que persistió tras los reintentos.
	ErrTransient = errors.New("conflicto transitorio de transacción")
)
