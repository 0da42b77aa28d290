package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

var _ repository.ReaderRepository = (*ReaderRepo)(nil)
var _ repository.ReaderTicketRepository = (*ReaderTicketRepo)(nil)

// ReaderRepo implementación del puerto ReaderRepository sobre PostgreSQL.
type ReaderRepo struct {
	q Querier
}

// NewReaderRepository construye el adaptador de persistencia para lectores.
func NewReaderRepository(q Querier) *ReaderRepo {
	return &ReaderRepo{q: q}
}

// Create persiste un nuevo lector.
func (r *ReaderRepo) Create(reader *entity.Reader) error {
	query := `
		INSERT INTO readers (id, full_name, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		reader.ID, reader.FullName, reader.Phone, reader.Email, reader.CreatedAt, reader.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert reader", err)
	}
	return nil
}

// GetByID obtiene un lector por ID.
func (r *ReaderRepo) GetByID(id string) (*entity.Reader, error) {
	query := `SELECT id, full_name, phone, email, created_at, updated_at FROM readers WHERE id = $1`
	var rd entity.Reader
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rd.ID, &rd.FullName, &rd.Phone, &rd.Email, &rd.CreatedAt, &rd.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get reader", err)
	}
	return &rd, nil
}

// Update actualiza los datos de contacto de un lector.
func (r *ReaderRepo) Update(reader *entity.Reader) error {
	query := `UPDATE readers SET full_name = $2, phone = $3, email = $4, updated_at = $5 WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		reader.ID, reader.FullName, reader.Phone, reader.Email, reader.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update reader", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista lectores con paginación.
func (r *ReaderRepo) List(limit, offset int) ([]*entity.Reader, error) {
	query := `SELECT id, full_name, phone, email, created_at, updated_at FROM readers ORDER BY full_name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, wrapErr("list readers", err)
	}
	defer rows.Close()

	var list []*entity.Reader
	for rows.Next() {
		var rd entity.Reader
		if err := rows.Scan(&rd.ID, &rd.FullName, &rd.Phone, &rd.Email, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
			return nil, wrapErr("scan reader", err)
		}
		list = append(list, &rd)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate readers", err)
	}
	return list, nil
}

// Delete elimina un lector por ID.
func (r *ReaderRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM readers WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete reader", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReaderTicketRepo implementación del puerto ReaderTicketRepository sobre PostgreSQL.
type ReaderTicketRepo struct {
	q Querier
}

// NewReaderTicketRepository construye el adaptador de persistencia para carnés.
func NewReaderTicketRepository(q Querier) *ReaderTicketRepo {
	return &ReaderTicketRepo{q: q}
}

// Create persiste un nuevo carné.
func (r *ReaderTicketRepo) Create(ticket *entity.ReaderTicket) error {
	query := `
		INSERT INTO reader_tickets (id, reader_id, registration_date, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		ticket.ID, ticket.ReaderID, ticket.RegistrationDate, ticket.EndTime, ticket.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert reader ticket", err)
	}
	return nil
}

// GetByID obtiene un carné por ID.
func (r *ReaderTicketRepo) GetByID(id string) (*entity.ReaderTicket, error) {
	query := `SELECT id, reader_id, registration_date, end_time, created_at FROM reader_tickets WHERE id = $1`
	var t entity.ReaderTicket
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ReaderID, &t.RegistrationDate, &t.EndTime, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get reader ticket", err)
	}
	return &t, nil
}

// ListByReader lista los carnés de un lector, más recientes primero.
func (r *ReaderTicketRepo) ListByReader(readerID string) ([]*entity.ReaderTicket, error) {
	query := `
		SELECT id, reader_id, registration_date, end_time, created_at
		FROM reader_tickets WHERE reader_id = $1 ORDER BY registration_date DESC`
	rows, err := r.q.Query(context.Background(), query, readerID)
	if err != nil {
		return nil, wrapErr("list tickets by reader", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

// List lista carnés con paginación.
func (r *ReaderTicketRepo) List(limit, offset int) ([]*entity.ReaderTicket, error) {
	query := `
		SELECT id, reader_id, registration_date, end_time, created_at
		FROM reader_tickets ORDER BY registration_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, wrapErr("list tickets", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

// Delete elimina un carné por ID.
func (r *ReaderTicketRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM reader_tickets WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete reader ticket", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]*entity.ReaderTicket, error) {
	var list []*entity.ReaderTicket
	for rows.Next() {
		var t entity.ReaderTicket
		if err := rows.Scan(&t.ID, &t.ReaderID, &t.RegistrationDate, &t.EndTime, &t.CreatedAt); err != nil {
			return nil, wrapErr("scan reader ticket", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate reader tickets", err)
	}
	return list, nil
}
