package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: la tabla stock_movements es append-only.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, item_id, store_id, type, qty, ref_type, ref_id, user_id, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ItemID, movement.StoreID, movement.Type, movement.Quantity,
		movement.RefType, movement.RefID, movement.UserID, movement.Ts,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// SumQuantity disponible del par: SUM(qty), 0 si no hay movimientos.
func (r *StockMovementRepo) SumQuantity(ctx context.Context, itemID, storeID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(qty), 0)::BIGINT
		FROM stock_movements WHERE item_id = $1 AND store_id = $2`
	var sum int64
	if err := r.q.QueryRow(ctx, query, itemID, storeID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}

// ListByKey lista los movimientos del par, más recientes primero.
func (r *StockMovementRepo) ListByKey(ctx context.Context, itemID, storeID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, item_id, store_id, type, qty, ref_type, ref_id, user_id, ts
		FROM stock_movements WHERE item_id = $1 AND store_id = $2
		ORDER BY ts DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, itemID, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.StoreID, &m.Type, &m.Quantity,
			&m.RefType, &m.RefID, &m.UserID, &m.Ts); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
