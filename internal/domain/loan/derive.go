// Package loan contiene los servicios de dominio del ciclo de vida de un
// préstamo: conteo de días, estado efectivo y multa por atraso.
package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
)

// DaysUntilDue calcula dueDate - (returnDate ?? today) en días calendario.
// Positivo = días restantes; negativo = días de atraso.
func DaysUntilDue(dueDate time.Time, returnDate *time.Time, today time.Time) int {
	current := today
	if returnDate != nil {
		current = *returnDate
	}
	return int(truncateDay(dueDate).Sub(truncateDay(current)).Hours() / 24)
}

// EffectiveStatus devuelve el estado autoritativo para mostrar: un préstamo
// abierto y vencido se reporta Просрочено aunque el estado persistido siga
// en В срок hasta la próxima transición explícita.
func EffectiveStatus(l *entity.Loan, today time.Time) entity.LoanStatus {
	if !l.Open() {
		return l.Status
	}
	if DaysUntilDue(l.DueDate, l.ReturnDate, today) < 0 {
		return entity.StatusOverdue
	}
	return entity.StatusOnTime
}

// Penalty calcula la multa al cierre: |días de atraso| * tarifa diaria.
// Cero si el préstamo se devolvió a tiempo.
func Penalty(daysUntilDue int, ratePerDay decimal.Decimal) decimal.Decimal {
	if daysUntilDue >= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(-daysUntilDue)).Mul(ratePerDay)
}

// Derive recalcula los campos derivados de un préstamo para lectura.
// No modifica el estado persistido; devuelve una copia con DaysUntilDue y
// Status efectivos a la fecha dada.
func Derive(l *entity.Loan, today time.Time) *entity.Loan {
	out := *l
	out.DaysUntilDue = DaysUntilDue(l.DueDate, l.ReturnDate, today)
	out.Status = EffectiveStatus(l, today)
	return &out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
