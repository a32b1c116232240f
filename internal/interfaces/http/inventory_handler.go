package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// ledgerService es el contrato que necesita el handler. Lo implementa *inventory.LedgerUseCase;
// la interfaz permite probar el handler sin base de datos.
type ledgerService interface {
	RecordMovement(ctx context.Context, in inventory.RecordMovementInput) (*entity.InventorySnapshot, error)
	UpdateReservation(ctx context.Context, in inventory.UpdateReservationInput) (*entity.InventorySnapshot, error)
	ListInventory(ctx context.Context, storeID string) ([]*entity.InventorySnapshot, error)
	GetSnapshot(ctx context.Context, itemID, storeID string) (*entity.InventorySnapshot, error)
	ListMovements(ctx context.Context, itemID, storeID string, limit, offset int) ([]*entity.StockMovement, error)
}

// InventoryHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type InventoryHandler struct {
	ledger ledgerService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger ledgerService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// ListInventory godoc
// @Summary      Inventario de una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId  path  string  true  "Tienda"
// @Success      200  {array}   dto.InventorySnapshotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/{storeId} [get]
func (h *InventoryHandler) ListInventory(c *fiber.Ctx) error {
	list, err := h.ledger.ListInventory(c.UserContext(), c.Params("storeId"))
	if err != nil {
		return writeLedgerError(c, err)
	}
	out := make([]dto.InventorySnapshotDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewInventorySnapshotDTO(s))
	}
	return c.JSON(out)
}

// GetSnapshot godoc
// @Summary      Inventario de un item en una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId  path  string  true  "Tienda"
// @Param        itemId   path  string  true  "Item"
// @Success      200  {object}  dto.InventorySnapshotDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{storeId}/items/{itemId} [get]
func (h *InventoryHandler) GetSnapshot(c *fiber.Ctx) error {
	snap, err := h.ledger.GetSnapshot(c.UserContext(), c.Params("itemId"), c.Params("storeId"))
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.JSON(dto.NewInventorySnapshotDTO(snap))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un item en una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storeId  path   string  true   "Tienda"
// @Param        itemId   path   string  true   "Item"
// @Param        limit    query  int     false  "Máximo de filas (default 50, máximo 500)"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/{storeId}/items/{itemId}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeInvalidQuery, Message: "paginación inválida"})
	}
	page.DefaultPage()
	movs, err := h.ledger.ListMovements(c.UserContext(), c.Params("itemId"), c.Params("storeId"), page.Limit, page.Offset)
	if err != nil {
		return writeLedgerError(c, err)
	}
	out := make([]dto.StockMovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.NewStockMovementDTO(m))
	}
	return c.JSON(fiber.Map{
		"movements": out,
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Delta con signo. Una salida que deja el disponible negativo requiere override=true y rol manager/admin.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string                     true  "Item"
// @Param        body    body  dto.RecordMovementRequest  true  "store_id, type, quantity, override, ref_type, ref_id"
// @Success      201  {object}  dto.InventorySnapshotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId}/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeInvalidBody, Message: "cuerpo inválido"})
	}
	snap, err := h.ledger.RecordMovement(c.UserContext(), inventory.RecordMovementInput{
		ItemID:   c.Params("itemId"),
		StoreID:  in.StoreID,
		Quantity: in.Quantity,
		Type:     in.Type,
		Actor:    ActorFromContext(c),
		Override: in.Override,
		RefType:  in.RefType,
		RefID:    in.RefID,
	})
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInventorySnapshotDTO(snap))
}

// UpdateInventory godoc
// @Summary      Actualizar reserva y ubicación (concurrencia optimista)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string                      true  "Item"
// @Param        body    body  dto.UpdateInventoryRequest  true  "store_id, qty_reserved, bin, expected_updated_at"
// @Success      200  {object}  dto.InventorySnapshotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId} [patch]
func (h *InventoryHandler) UpdateInventory(c *fiber.Ctx) error {
	var in dto.UpdateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeInvalidBody, Message: "cuerpo inválido"})
	}
	if in.QtyReserved == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: "qty_reserved es obligatorio"})
	}
	snap, err := h.ledger.UpdateReservation(c.UserContext(), inventory.UpdateReservationInput{
		ItemID:          c.Params("itemId"),
		StoreID:         in.StoreID,
		QtyReserved:     *in.QtyReserved,
		Bin:             in.Bin,
		ExpectedVersion: in.ExpectedUpdatedAt,
	})
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.JSON(dto.NewInventorySnapshotDTO(snap))
}

// writeLedgerError traduce los errores del ledger a respuestas HTTP.
func writeLedgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: dto.CodeNotFound, Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: dto.CodeInsufficientStock, Message: err.Error()})
	case errors.Is(err, domain.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: dto.CodeVersionConflict, Message: err.Error()})
	case errors.Is(err, domain.ErrTransient):
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: dto.CodeTransient, Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: dto.CodeInternal, Message: "error interno"})
}
