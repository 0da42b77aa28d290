package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

var _ repository.LedgerEventRepository = (*LedgerEventRepo)(nil)

// LedgerEventRepo implementación del puerto LedgerEventRepository sobre PostgreSQL.
// La tabla lleva una columna seq (bigserial) como desempate estable del orden
// de inserción entre eventos de la misma fecha.
type LedgerEventRepo struct {
	q Querier
}

// NewLedgerEventRepository construye el adaptador de persistencia del ledger.
func NewLedgerEventRepository(q Querier) *LedgerEventRepo {
	return &LedgerEventRepo{q: q}
}

// Create inserta un evento. Las columnas location_id y prev_location_id son
// NULL cuando el evento no está ligado a ubicación.
func (r *LedgerEventRepo) Create(event *entity.LedgerEvent) error {
	query := `
		INSERT INTO ledger_events (id, book_id, location_id, prev_location_id, kind, delta, date, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.BookID, event.LocationID, event.PrevLocationID,
		string(event.Kind), event.Delta, event.Date, event.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert ledger event", err)
	}
	return nil
}

// GetByID obtiene un evento por ID.
func (r *LedgerEventRepo) GetByID(id string) (*entity.LedgerEvent, error) {
	query := `
		SELECT id, book_id, COALESCE(location_id, ''), COALESCE(prev_location_id, ''), kind, delta, date, created_at
		FROM ledger_events WHERE id = $1`
	var e entity.LedgerEvent
	var kind string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.BookID, &e.LocationID, &e.PrevLocationID, &kind, &e.Delta, &e.Date, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get ledger event", err)
	}
	e.Kind = entity.EventKind(kind)
	return &e, nil
}

// ListByBook devuelve los eventos de un libro, más recientes primero
// (date DESC, seq DESC como desempate de inserción).
func (r *LedgerEventRepo) ListByBook(bookID string, limit, offset int) ([]*entity.LedgerEvent, error) {
	query := `
		SELECT id, book_id, COALESCE(location_id, ''), COALESCE(prev_location_id, ''), kind, delta, date, created_at
		FROM ledger_events
		WHERE book_id = $1
		ORDER BY date DESC, seq DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, bookID, limit, offset)
	if err != nil {
		return nil, wrapErr("list ledger events", err)
	}
	defer rows.Close()

	var list []*entity.LedgerEvent
	for rows.Next() {
		var e entity.LedgerEvent
		var kind string
		if err := rows.Scan(
			&e.ID, &e.BookID, &e.LocationID, &e.PrevLocationID, &kind, &e.Delta, &e.Date, &e.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan ledger event", err)
		}
		e.Kind = entity.EventKind(kind)
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate ledger events", err)
	}
	return list, nil
}

// SumDeltas pliega el ledger de un libro. Excluye las filas TRANSFER: son
// movimientos entre ubicaciones de suma cero para el total del libro.
func (r *LedgerEventRepo) SumDeltas(bookID string) (int, error) {
	var sum int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(delta), 0) FROM ledger_events WHERE book_id = $1 AND kind <> 'TRANSFER'`,
		bookID,
	).Scan(&sum)
	if err != nil {
		return 0, wrapErr("sum ledger deltas", err)
	}
	return sum, nil
}

// Delete elimina un evento (solo eliminación administrativa; el caso de uso
// revierte las cantidades cacheadas en la misma transacción).
func (r *LedgerEventRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM ledger_events WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete ledger event", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
