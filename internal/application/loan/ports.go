package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita una transición de préstamo: la fila del préstamo,
// el evento del ledger y la cantidad del libro se persisten juntos o ninguno.
type TxRunner interface {
	RunLoan(ctx context.Context, fn func(
		loanRepo repository.LoanRepository,
		eventRepo repository.LedgerEventRepository,
		bookRepo repository.BookRepository,
	) error) error
}

// PenaltyPolicy política de multas. RatePerDay es la tarifa fija por día de
// atraso al cierre. LostAmount es la multa plana para ejemplares perdidos
// (cero = sin multa, a criterio del mostrador). DeleteLost incluye los
// préstamos LOST en el borrado en lote de cerrados.
type PenaltyPolicy struct {
	RatePerDay decimal.Decimal
	LostAmount decimal.Decimal
	DeleteLost bool
}

// ReportRow fila del reporte de préstamos vencidos.
type ReportRow struct {
	Loan           *entity.Loan
	BookTitle      string
	ReaderName     string
	AccruedPenalty decimal.Decimal // multa devengada si se devolviera hoy
}

// ReportGenerator genera la representación imprimible del reporte de
// vencidos. Implementado en infrastructure/pdf.
type ReportGenerator interface {
	GenerateOverdueReport(ctx context.Context, rows []ReportRow, asOf time.Time) ([]byte, error)
}
