package loan

import (
	"context"

	domloan "github.com/jhoicas/biblioteca-api/internal/domain/loan"
)

// OverdueReport arma las filas de los préstamos vencidos a hoy (con la multa
// devengada si se devolvieran ahora) y delega el render al generador.
func (uc *UseCase) OverdueReport(ctx context.Context, gen ReportGenerator) ([]byte, error) {
	now := uc.clock()
	list, err := uc.loanRepo.ListOverdue(now)
	if err != nil {
		return nil, err
	}
	rows := make([]ReportRow, 0, len(list))
	for _, l := range list {
		derived := domloan.Derive(l, now)
		row := ReportRow{
			Loan:           derived,
			AccruedPenalty: domloan.Penalty(derived.DaysUntilDue, uc.policy.RatePerDay),
		}
		if book, err := uc.bookRepo.GetByID(l.BookID); err == nil && book != nil {
			row.BookTitle = book.Title
		}
		if ticket, err := uc.ticketRepo.GetByID(l.ReaderTicketID); err == nil && ticket != nil {
			if reader, err := uc.readerRepo.GetByID(ticket.ReaderID); err == nil && reader != nil {
				row.ReaderName = reader.FullName
			}
		}
		rows = append(rows, row)
	}
	return gen.GenerateOverdueReport(ctx, rows, now)
}
