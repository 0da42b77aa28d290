package repository

import "github.com/jhoicas/biblioteca-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	GetByName(name string) (*entity.Location, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Location, error)
	UpdateAmount(locationID string, amount int) error
	List(limit, offset int) ([]*entity.Location, error)
	Delete(id string) error
}
