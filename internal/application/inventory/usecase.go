package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/rs/zerolog"
)

// Paginación del historial de movimientos; HTTP y CLI usan los mismos valores.
const (
	DefaultMovementLimit = 50
	MaxMovementLimit     = 500
)

// LedgerUseCase orquesta el ledger de inventario: registrar movimientos (bloqueo pesimista por
// clave dentro de una transacción), actualizar reservas (concurrencia optimista) y las lecturas.
type LedgerUseCase struct {
	txRunner   TxRunner
	movRepo    repository.StockMovementRepository
	recordRepo repository.InventoryRecordRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewLedgerUseCase construye el caso de uso. movRepo y recordRepo se usan solo para lecturas
// fuera de transacción (pool); las escrituras van por txRunner.
func NewLedgerUseCase(
	txRunner TxRunner,
	movRepo repository.StockMovementRepository,
	recordRepo repository.InventoryRecordRepository,
	log *logger.Logger,
) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:   txRunner,
		movRepo:    movRepo,
		recordRepo: recordRepo,
		log:        log.Component("inventory_ledger"),
		now:        time.Now,
	}
}

// RecordMovementInput entrada para registrar un movimiento de inventario.
type RecordMovementInput struct {
	ItemID   string
	StoreID  string
	Quantity int64 // delta con signo
	Type     string
	Actor    entity.Actor
	Override bool
	RefType  *string
	RefID    *string
}

func (in *RecordMovementInput) normalize() error {
	in.ItemID = strings.TrimSpace(in.ItemID)
	in.StoreID = strings.TrimSpace(in.StoreID)
	in.Type = strings.TrimSpace(in.Type)
	if in.ItemID == "" || in.StoreID == "" {
		return fmt.Errorf("%w: item_id y store_id son obligatorios", domain.ErrInvalidInput)
	}
	if in.Type == "" {
		return fmt.Errorf("%w: type es obligatorio", domain.ErrInvalidInput)
	}
	role, ok := entity.ParseRole(in.Actor.Role)
	if !ok {
		return fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, in.Actor.Role)
	}
	in.Actor.Role = role
	return nil
}

// UpdateReservationInput entrada para actualizar la reserva y/o el bin de un registro.
// ExpectedVersion es el UpdatedAt leído por el llamador, en RFC 3339 con fracción de segundo.
type UpdateReservationInput struct {
	ItemID          string
	StoreID         string
	QtyReserved     int64
	Bin             *string // nil conserva el bin actual
	ExpectedVersion string
}

// ParseVersion interpreta un token de versión (UpdatedAt serializado en RFC 3339).
func ParseVersion(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: versión %q no es un timestamp RFC 3339", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// FormatVersion serializa UpdatedAt como token de versión; ParseVersion(FormatVersion(t)) == t.
func FormatVersion(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// RecordMovement agrega un movimiento y devuelve el snapshot resultante.
//
// Dentro de una transacción: bloquea la fila de inventario del par (SELECT FOR UPDATE),
// suma el log, verifica que el disponible no quede negativo (salvo override de manager/admin),
// inserta el movimiento y actualiza el registro. Un rechazo no deja ningún cambio.
// Quantity 0 es un no-op que devuelve el estado actual sin escribir.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in RecordMovementInput) (*entity.InventorySnapshot, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		return uc.snapshotOrEmpty(ctx, in.ItemID, in.StoreID)
	}

	var (
		snap       *entity.InventorySnapshot
		current    int64
		overridden bool
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.InventoryRecordRepository,
	) error {
		if _, err := recordRepo.LockForUpdate(ctx, in.ItemID, in.StoreID); err != nil {
			return err
		}
		var err error
		current, err = movRepo.SumQuantity(ctx, in.ItemID, in.StoreID)
		if err != nil {
			return err
		}
		projected, ok := inventory.Project(current, in.Quantity)
		if !ok {
			return fmt.Errorf("%w: el movimiento %d desborda el disponible %d", domain.ErrInvalidInput, in.Quantity, current)
		}

		var allowed bool
		allowed, overridden = inventory.AllowMovement(in.Quantity, projected, in.Actor.Role, in.Override)
		if !allowed {
			return fmt.Errorf("%w: disponible %d, movimiento %d", domain.ErrInsufficientStock, current, in.Quantity)
		}

		mov := &entity.StockMovement{
			ID:       uuid.New().String(),
			ItemID:   in.ItemID,
			StoreID:  in.StoreID,
			Type:     in.Type,
			Quantity: in.Quantity,
			RefType:  in.RefType,
			RefID:    in.RefID,
			Ts:       uc.now().UTC(),
		}
		if in.Actor.ID != "" {
			userID := in.Actor.ID
			mov.UserID = &userID
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		record, err := recordRepo.Touch(ctx, in.ItemID, in.StoreID, projected)
		if err != nil {
			return err
		}
		snap = entity.NewSnapshot(record, projected)
		return nil
	})
	if err != nil {
		uc.rejectionEvent(err).Err(err).
			Str("item_id", in.ItemID).
			Str("store_id", in.StoreID).
			Int64("quantity", in.Quantity).
			Str("type", in.Type).
			Str("role", in.Actor.Role).
			Bool("override_requested", in.Override).
			Msg("movimiento rechazado")
		return nil, err
	}

	var ev *zerolog.Event
	if overridden {
		ev = uc.log.Warn().Bool("override", true).Str("actor_id", in.Actor.ID).Str("role", in.Actor.Role)
	} else {
		ev = uc.log.Info()
	}
	ev.Str("item_id", in.ItemID).
		Str("store_id", in.StoreID).
		Int64("quantity", in.Quantity).
		Str("type", in.Type).
		Int64("on_hand_before", current).
		Int64("on_hand", snap.QtyOnHand).
		Msg("movimiento registrado")
	return snap, nil
}

// UpdateReservation cambia la reserva (y opcionalmente el bin) si la versión del llamador sigue vigente.
// Un conflicto de versión no se reintenta aquí: el llamador debe releer y recalcular.
// La reserva puede superar el disponible; el ledger no lo trata como error.
func (uc *LedgerUseCase) UpdateReservation(ctx context.Context, in UpdateReservationInput) (*entity.InventorySnapshot, error) {
	itemID := strings.TrimSpace(in.ItemID)
	storeID := strings.TrimSpace(in.StoreID)
	if itemID == "" || storeID == "" {
		return nil, fmt.Errorf("%w: item_id y store_id son obligatorios", domain.ErrInvalidInput)
	}
	if in.QtyReserved < 0 {
		return nil, fmt.Errorf("%w: qty_reserved no puede ser negativa", domain.ErrInvalidInput)
	}
	expected, err := ParseVersion(in.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	var snap *entity.InventorySnapshot
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.InventoryRecordRepository,
	) error {
		record, err := recordRepo.Get(ctx, itemID, storeID)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("%w: no hay registro de inventario para %s en %s", domain.ErrNotFound, itemID, storeID)
		}
		if !record.UpdatedAt.Equal(expected) {
			return fmt.Errorf("%w: esperada %s, actual %s", domain.ErrVersionConflict,
				FormatVersion(expected), FormatVersion(record.UpdatedAt))
		}
		updated, err := recordRepo.UpdateReservation(ctx, itemID, storeID, in.QtyReserved, in.Bin, expected)
		if err != nil {
			return err
		}
		if updated == nil {
			// Otra escritura ganó entre la lectura y el UPDATE condicional.
			return fmt.Errorf("%w: el registro cambió durante la actualización", domain.ErrVersionConflict)
		}
		onHand, err := movRepo.SumQuantity(ctx, itemID, storeID)
		if err != nil {
			return err
		}
		snap = entity.NewSnapshot(updated, onHand)
		return nil
	})
	if err != nil {
		uc.rejectionEvent(err).Err(err).
			Str("item_id", itemID).
			Str("store_id", storeID).
			Str("expected_version", in.ExpectedVersion).
			Msg("actualización de reserva rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("item_id", itemID).
		Str("store_id", storeID).
		Int64("qty_reserved", snap.QtyReserved).
		Str("version", FormatVersion(snap.UpdatedAt)).
		Msg("reserva actualizada")
	return snap, nil
}

// ListInventory devuelve un snapshot por cada registro de la tienda. Lectura sin transacción:
// cada fila es consistente consigo misma, no entre filas.
func (uc *LedgerUseCase) ListInventory(ctx context.Context, storeID string) ([]*entity.InventorySnapshot, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, fmt.Errorf("%w: store_id es obligatorio", domain.ErrInvalidInput)
	}
	records, err := uc.recordRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.InventorySnapshot, 0, len(records))
	for _, record := range records {
		onHand, err := uc.movRepo.SumQuantity(ctx, record.ItemID, record.StoreID)
		if err != nil {
			return nil, err
		}
		list = append(list, entity.NewSnapshot(record, onHand))
	}
	return list, nil
}

// GetSnapshot snapshot de un solo par; ErrNotFound si nunca tuvo movimientos.
func (uc *LedgerUseCase) GetSnapshot(ctx context.Context, itemID, storeID string) (*entity.InventorySnapshot, error) {
	itemID = strings.TrimSpace(itemID)
	storeID = strings.TrimSpace(storeID)
	if itemID == "" || storeID == "" {
		return nil, fmt.Errorf("%w: item_id y store_id son obligatorios", domain.ErrInvalidInput)
	}
	record, err := uc.recordRepo.Get(ctx, itemID, storeID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: no hay registro de inventario para %s en %s", domain.ErrNotFound, itemID, storeID)
	}
	onHand, err := uc.movRepo.SumQuantity(ctx, itemID, storeID)
	if err != nil {
		return nil, err
	}
	return entity.NewSnapshot(record, onHand), nil
}

// ListMovements historial de movimientos del par, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, itemID, storeID string, limit, offset int) ([]*entity.StockMovement, error) {
	itemID = strings.TrimSpace(itemID)
	storeID = strings.TrimSpace(storeID)
	if itemID == "" || storeID == "" {
		return nil, fmt.Errorf("%w: item_id y store_id son obligatorios", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	if limit > MaxMovementLimit {
		limit = MaxMovementLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movRepo.ListByKey(ctx, itemID, storeID, limit, offset)
}

// snapshotOrEmpty estado actual del par; si aún no existe registro devuelve reserva 0 y UpdatedAt cero.
func (uc *LedgerUseCase) snapshotOrEmpty(ctx context.Context, itemID, storeID string) (*entity.InventorySnapshot, error) {
	record, err := uc.recordRepo.Get(ctx, itemID, storeID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &entity.InventoryRecord{ItemID: itemID, StoreID: storeID}
	}
	onHand, err := uc.movRepo.SumQuantity(ctx, itemID, storeID)
	if err != nil {
		return nil, err
	}
	return entity.NewSnapshot(record, onHand), nil
}

// rejectionEvent nivel warn para rechazos de negocio, error para fallas de infraestructura.
func (uc *LedgerUseCase) rejectionEvent(err error) *zerolog.Event {
	if isExpected(err) {
		return uc.log.Warn()
	}
	return uc.log.Error()
}

// isExpected errores de negocio que se reportan al llamador sin ser fallas del sistema.
func isExpected(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrVersionConflict)
}
