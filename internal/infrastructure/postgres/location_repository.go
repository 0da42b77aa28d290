package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación. Amount inicia en 0.
func (r *LocationRepo) Create(location *entity.Location) error {
	query := `
		INSERT INTO locations (id, name, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.Name, location.Amount, location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert location", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.getOne(`SELECT id, name, amount, created_at, updated_at FROM locations WHERE id = $1`, id)
}

// GetByName obtiene una ubicación por nombre (único).
func (r *LocationRepo) GetByName(name string) (*entity.Location, error) {
	return r.getOne(`SELECT id, name, amount, created_at, updated_at FROM locations WHERE name = $1`, name)
}

// GetForUpdate bloquea la fila de la ubicación (SELECT FOR UPDATE).
func (r *LocationRepo) GetForUpdate(id string) (*entity.Location, error) {
	return r.getOne(`SELECT id, name, amount, created_at, updated_at FROM locations WHERE id = $1 FOR UPDATE`, id)
}

func (r *LocationRepo) getOne(query string, arg any) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&l.ID, &l.Name, &l.Amount, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get location", err)
	}
	return &l, nil
}

// UpdateAmount actualiza la cantidad cacheada por ubicación (usado por el motor del ledger).
func (r *LocationRepo) UpdateAmount(locationID string, amount int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE locations SET amount = $2, updated_at = now() WHERE id = $1`,
		locationID, amount,
	)
	if err != nil {
		return wrapErr("update location amount", err)
	}
	return nil
}

// List lista ubicaciones con paginación.
func (r *LocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	query := `SELECT id, name, amount, created_at, updated_at FROM locations ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, wrapErr("list locations", err)
	}
	defer rows.Close()

	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Amount, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, wrapErr("scan location", err)
		}
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate locations", err)
	}
	return list, nil
}

// Delete elimina una ubicación por ID.
func (r *LocationRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete location", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
