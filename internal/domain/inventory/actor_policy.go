package inventory

import (
	"math"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// CanOverrideNegativeStock indica si el rol puede autorizar un movimiento que deja el
// disponible en negativo. Es la única decisión de autorización que toma el ledger:
// quién puede invocarlo en primer lugar se resuelve fuera.
func CanOverrideNegativeStock(role string) bool {
	switch role {
	case entity.RoleManager, entity.RoleAdmin:
		return true
	default:
		return false
	}
}

// AllowMovement decide si un movimiento con delta y disponible proyectado puede aplicarse.
// overridden es true cuando el movimiento solo pasa gracias a la autorización del rol.
func AllowMovement(delta, projected int64, role string, overrideRequested bool) (allowed, overridden bool) {
	if delta >= 0 || projected >= 0 {
		return true, false
	}
	if overrideRequested && CanOverrideNegativeStock(role) {
		return true, true
	}
	return false, false
}

// Project suma delta al disponible actual. ok es false si el resultado no cabe en int64;
// en ese caso el movimiento debe rechazarse antes de evaluar la política.
func Project(current, delta int64) (projected int64, ok bool) {
	if (delta > 0 && current > math.MaxInt64-delta) || (delta < 0 && current < math.MinInt64-delta) {
		return 0, false
	}
	return current + delta, true
}
