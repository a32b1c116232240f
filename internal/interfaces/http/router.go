package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    ledgerService
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Get("/:storeId", inventoryHandler.ListInventory)
	invGroup.Get("/:storeId/items/:itemId", inventoryHandler.GetSnapshot)
	invGroup.Get("/:storeId/items/:itemId/movements", inventoryHandler.ListMovements)
	invGroup.Post("/:itemId/movements",
		DefaultRole(entity.RoleClerk),
		RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleClerk),
		inventoryHandler.RecordMovement,
	)
	invGroup.Patch("/:itemId",
		RequireRole(entity.RoleAdmin, entity.RoleManager),
		inventoryHandler.UpdateInventory,
	)
}
