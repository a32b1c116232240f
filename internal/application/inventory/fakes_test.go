package inventory_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacenamiento en memoria que imita la semántica de PostgreSQL que usa el ledger:
//   - bloqueo de fila por (item, tienda) retenido hasta el fin de la transacción
//   - escrituras visibles para otros solo tras el Commit; Rollback las descarta
//   - updated_at estrictamente creciente con precisión de microsegundos
// ──────────────────────────────────────────────────────────────────────────────

type recordKey struct{ item, store string }

type memStore struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
	records   map[recordKey]*entity.InventoryRecord
	keyLocks  map[recordKey]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		records:  make(map[recordKey]*entity.InventoryRecord),
		keyLocks: make(map[recordKey]*sync.Mutex),
	}
}

func (s *memStore) keyLock(k recordKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.keyLocks[k]
	if !ok {
		m = &sync.Mutex{}
		s.keyLocks[k] = m
	}
	return m
}

// nextVersion equivale a GREATEST(clock_timestamp(), updated_at + 1µs).
func nextVersion(prev time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func (s *memStore) movementCount(item, store string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.movements {
		if m.ItemID == item && m.StoreID == store {
			n++
		}
	}
	return n
}

func (s *memStore) committedRecord(item, store string) *entity.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[recordKey{item, store}]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

// memTx transacción en curso: locks retenidos y escrituras pendientes.
type memTx struct {
	s       *memStore
	held    map[recordKey]*sync.Mutex
	movs    []*entity.StockMovement
	records map[recordKey]*entity.InventoryRecord
}

func (tx *memTx) lock(k recordKey) {
	if _, ok := tx.held[k]; ok {
		return
	}
	m := tx.s.keyLock(k)
	m.Lock()
	tx.held[k] = m
}

func (tx *memTx) commit() {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	tx.s.movements = append(tx.s.movements, tx.movs...)
	for k, r := range tx.records {
		tx.s.records[k] = r
	}
}

func (tx *memTx) release() {
	for _, m := range tx.held {
		m.Unlock()
	}
}

// memTxRunner implementa inventory.TxRunner sobre memStore.
type memTxRunner struct {
	s *memStore
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recordRepo repository.InventoryRecordRepository,
) error) error {
	tx := &memTx{
		s:       r.s,
		held:    make(map[recordKey]*sync.Mutex),
		records: make(map[recordKey]*entity.InventoryRecord),
	}
	defer tx.release()
	if err := fn(&memMovementRepo{s: r.s, tx: tx}, &memRecordRepo{s: r.s, tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// errTxRunner simula una falla de infraestructura al abrir la transacción.
type errTxRunner struct{ err error }

func (r errTxRunner) Run(context.Context, func(repository.StockMovementRepository, repository.InventoryRecordRepository) error) error {
	return r.err
}

// memMovementRepo con tx nil lee/escribe el estado confirmado (equivalente al pool).
type memMovementRepo struct {
	s  *memStore
	tx *memTx
}

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	cp := *m
	if r.tx != nil {
		r.tx.movs = append(r.tx.movs, &cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) SumQuantity(_ context.Context, itemID, storeID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for _, m := range r.s.movements {
		if m.ItemID == itemID && m.StoreID == storeID {
			sum += m.Quantity
		}
	}
	if r.tx != nil {
		for _, m := range r.tx.movs {
			if m.ItemID == itemID && m.StoreID == storeID {
				sum += m.Quantity
			}
		}
	}
	return sum, nil
}

func (r *memMovementRepo) ListByKey(_ context.Context, itemID, storeID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ItemID == itemID && m.StoreID == storeID {
			cp := *m
			list = append(list, &cp)
		}
	}
	r.s.mu.Unlock()
	sort.SliceStable(list, func(i, j int) bool { return list[i].Ts.After(list[j].Ts) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type memRecordRepo struct {
	s  *memStore
	tx *memTx
}

func (r *memRecordRepo) current(k recordKey) *entity.InventoryRecord {
	if r.tx != nil {
		if rec, ok := r.tx.records[k]; ok {
			cp := *rec
			return &cp
		}
	}
	return r.s.committedRecord(k.item, k.store)
}

func (r *memRecordRepo) Get(_ context.Context, itemID, storeID string) (*entity.InventoryRecord, error) {
	return r.current(recordKey{itemID, storeID}), nil
}

func (r *memRecordRepo) LockForUpdate(_ context.Context, itemID, storeID string) (*entity.InventoryRecord, error) {
	k := recordKey{itemID, storeID}
	r.tx.lock(k)
	rec := r.current(k)
	if rec == nil {
		rec = &entity.InventoryRecord{ItemID: itemID, StoreID: storeID, UpdatedAt: nextVersion(time.Time{})}
		cp := *rec
		r.tx.records[k] = &cp
	}
	return rec, nil
}

func (r *memRecordRepo) Touch(_ context.Context, itemID, storeID string, onHand int64) (*entity.InventoryRecord, error) {
	k := recordKey{itemID, storeID}
	rec := r.current(k)
	if rec == nil {
		return nil, nil
	}
	rec.QtyOnHand = onHand
	rec.UpdatedAt = nextVersion(rec.UpdatedAt)
	cp := *rec
	r.tx.records[k] = &cp
	return rec, nil
}

func (r *memRecordRepo) UpdateReservation(_ context.Context, itemID, storeID string, reserved int64, bin *string, expected time.Time) (*entity.InventoryRecord, error) {
	k := recordKey{itemID, storeID}
	r.tx.lock(k)
	rec := r.current(k)
	if rec == nil || !rec.UpdatedAt.Equal(expected) {
		return nil, nil
	}
	rec.QtyReserved = reserved
	if bin != nil {
		b := *bin
		rec.Bin = &b
	}
	rec.UpdatedAt = nextVersion(rec.UpdatedAt)
	cp := *rec
	r.tx.records[k] = &cp
	return rec, nil
}

func (r *memRecordRepo) ListByStore(_ context.Context, storeID string) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	var list []*entity.InventoryRecord
	for _, rec := range r.s.records {
		if rec.StoreID == storeID {
			cp := *rec
			list = append(list, &cp)
		}
	}
	r.s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	return list, nil
}
