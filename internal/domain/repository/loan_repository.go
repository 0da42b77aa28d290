package repository

import (
	"time"

	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
)

// LoanRepository define el puerto de persistencia para Loan (DIP).
type LoanRepository interface {
	Create(loan *entity.Loan) error
	GetByID(id string) (*entity.Loan, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Loan, error)
	Update(loan *entity.Loan) error
	// ListOpen devuelve préstamos con return_date NULL y estado distinto de LOST.
	ListOpen(limit, offset int) ([]*entity.Loan, error)
	ListByReader(readerTicketID string) ([]*entity.Loan, error)
	// ListOverdue devuelve préstamos abiertos cuya fecha límite ya pasó.
	ListOverdue(asOf time.Time) ([]*entity.Loan, error)
	// DeleteByStatus borra en lote y devuelve la cantidad de filas eliminadas.
	DeleteByStatus(statuses []entity.LoanStatus) (int, error)
	Delete(id string) error
}
