package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus estado persistido de un préstamo.
type LoanStatus string

const (
	StatusOnTime         LoanStatus = "ON_TIME"
	StatusOverdue        LoanStatus = "OVERDUE"
	StatusReturnedOnTime LoanStatus = "RETURNED_ON_TIME"
	StatusReturnedLate   LoanStatus = "RETURNED_LATE"
	StatusLost           LoanStatus = "LOST"
)

// Display devuelve la etiqueta canónica para UI (heredada del sistema original).
func (s LoanStatus) Display() string {
	switch s {
	case StatusOnTime:
		return "В срок"
	case StatusOverdue:
		return "Просрочено"
	case StatusReturnedOnTime:
		return "Возвращено в срок"
	case StatusReturnedLate:
		return "Просрочено возвращено с оплатой"
	case StatusLost:
		return "Утеряно"
	}
	return string(s)
}

// Settled reporta si el estado es terminal (elegible para borrado en lote).
func (s LoanStatus) Settled() bool {
	return s == StatusReturnedOnTime || s == StatusReturnedLate || s == StatusLost
}

// Loan representa un préstamo: un lector con un ejemplar de un libro.
// DaysUntilDue y el estado efectivo son derivados y se recalculan en cada
// lectura (ver domain/loan); los campos persistidos solo se reescriben en
// transiciones explícitas (devolución, pérdida).
type Loan struct {
	ID             string
	ReaderTicketID string
	BookID         string
	IssueDate      time.Time
	DueDate        time.Time
	ReturnDate     *time.Time // nil mientras el préstamo está abierto
	DaysUntilDue   int        // positivo = días restantes, negativo = vencido
	Status         LoanStatus
	PenaltyAmount  decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Open reporta si el préstamo sigue abierto (el ejemplar no volvió ni se dio
// por perdido).
func (l *Loan) Open() bool {
	return l.ReturnDate == nil && l.Status != StatusLost
}
