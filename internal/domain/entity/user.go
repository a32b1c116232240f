package entity

import "strings"

// Roles válidos del actor que origina un movimiento (conjunto cerrado).
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClerk   = "clerk"
)

// Actor identidad ya resuelta por la capa de autenticación externa.
type Actor struct {
	ID   string // vacío para movimientos del sistema
	Role string
}

// ParseRole normaliza el rol y reporta si pertenece al conjunto cerrado.
func ParseRole(s string) (string, bool) {
	role := strings.ToLower(strings.TrimSpace(s))
	switch role {
	case RoleAdmin, RoleManager, RoleClerk:
		return role, true
	}
	return "", false
}
