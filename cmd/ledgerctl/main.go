// ledgerctl administra el ledger de inventario desde la terminal: migraciones, consultas,
// movimientos, reservas y emisión de tokens para pruebas.
//
// Uso: go run ./cmd/ledgerctl <comando> [flags]
// Lee la misma configuración que la API (variables de entorno, .env o config.env).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
