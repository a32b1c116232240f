package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación de InventoryRecordRepository sobre la tabla inventory.
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const inventoryColumns = `item_id, store_id, qty_on_hand, qty_reserved, bin, updated_at`

// nextVersion garantiza que updated_at avance aunque dos escrituras caigan en el mismo microsegundo.
const nextVersion = `GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')`

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	if err := row.Scan(&rec.ItemID, &rec.StoreID, &rec.QtyOnHand, &rec.QtyReserved, &rec.Bin, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *InventoryRecordRepo) Get(ctx context.Context, itemID, storeID string) (*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE item_id = $1 AND store_id = $2`
	rec, err := scanRecord(r.q.QueryRow(ctx, query, itemID, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

// LockForUpdate inserta la fila si falta y la bloquea (SELECT FOR UPDATE). Si la transacción
// hace Rollback, la fila recién insertada desaparece con ella.
func (r *InventoryRecordRepo) LockForUpdate(ctx context.Context, itemID, storeID string) (*entity.InventoryRecord, error) {
	insert := `
		INSERT INTO inventory (item_id, store_id, qty_on_hand, qty_reserved)
		VALUES ($1, $2, 0, 0)
		ON CONFLICT (item_id, store_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, itemID, storeID); err != nil {
		return nil, fmt.Errorf("ensure inventory record: %w", err)
	}
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE item_id = $1 AND store_id = $2 FOR UPDATE`
	rec, err := scanRecord(r.q.QueryRow(ctx, query, itemID, storeID))
	if err != nil {
		return nil, fmt.Errorf("lock inventory record: %w", err)
	}
	return rec, nil
}

func (r *InventoryRecordRepo) Touch(ctx context.Context, itemID, storeID string, onHand int64) (*entity.InventoryRecord, error) {
	query := `
		UPDATE inventory SET qty_on_hand = $3, updated_at = ` + nextVersion + `
		WHERE item_id = $1 AND store_id = $2
		RETURNING ` + inventoryColumns
	rec, err := scanRecord(r.q.QueryRow(ctx, query, itemID, storeID, onHand))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("touch inventory record: fila %s/%s inexistente", itemID, storeID)
		}
		return nil, fmt.Errorf("touch inventory record: %w", err)
	}
	return rec, nil
}

// UpdateReservation UPDATE condicional sobre updated_at (compare-and-set). Bajo read committed
// una escritura concurrente bloquea la fila y, al reevaluar el WHERE, este UPDATE no afecta filas.
func (r *InventoryRecordRepo) UpdateReservation(ctx context.Context, itemID, storeID string, reserved int64, bin *string, expectedVersion time.Time) (*entity.InventoryRecord, error) {
	query := `
		UPDATE inventory
		SET qty_reserved = $3, bin = COALESCE($4, bin), updated_at = ` + nextVersion + `
		WHERE item_id = $1 AND store_id = $2 AND updated_at = $5
		RETURNING ` + inventoryColumns
	rec, err := scanRecord(r.q.QueryRow(ctx, query, itemID, storeID, reserved, bin, expectedVersion))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	return rec, nil
}

func (r *InventoryRecordRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE store_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by store: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
