package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	domloan "github.com/jhoicas/biblioteca-api/internal/domain/loan"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// UseCase maneja el ciclo de vida de un préstamo: apertura (emite LOAN_ISSUE
// con delta -1), devolución (emite LOAN_RETURN con delta +1, congela días y
// multa), pérdida y borrado de cerrados. Cada transición que toca el ledger
// corre en una sola transacción vía TxRunner.
type UseCase struct {
	txRunner   TxRunner
	loanRepo   repository.LoanRepository
	bookRepo   repository.BookRepository
	ticketRepo repository.ReaderTicketRepository
	readerRepo repository.ReaderRepository
	policy     PenaltyPolicy
	clock      func() time.Time
}

// NewUseCase construye el caso de uso. Los repositorios sueltos se usan para
// lecturas fuera de transacción.
func NewUseCase(
	txRunner TxRunner,
	loanRepo repository.LoanRepository,
	bookRepo repository.BookRepository,
	ticketRepo repository.ReaderTicketRepository,
	readerRepo repository.ReaderRepository,
	policy PenaltyPolicy,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		loanRepo:   loanRepo,
		bookRepo:   bookRepo,
		ticketRepo: ticketRepo,
		readerRepo: readerRepo,
		policy:     policy,
		clock:      time.Now,
	}
}

// WithClock reemplaza el reloj (inyectable para tests).
func (uc *UseCase) WithClock(clock func() time.Time) *UseCase {
	uc.clock = clock
	return uc
}

// CreateInput entrada para abrir un préstamo.
type CreateInput struct {
	ReaderTicketID string
	BookID         string
	IssueDate      time.Time
	DueDate        time.Time
}

// Create abre un préstamo: valida carné y fechas, y en una transacción
// verifica stock disponible, inserta el préstamo y el evento LOAN_ISSUE y
// decrementa la cantidad cacheada. Todo o nada: si el stock está agotado
// no queda ni préstamo ni evento.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Loan, error) {
	if in.ReaderTicketID == "" || in.BookID == "" || in.IssueDate.IsZero() || in.DueDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.DueDate.Before(in.IssueDate) {
		return nil, domain.ErrInvalidInput
	}
	ticket, err := uc.ticketRepo.GetByID(in.ReaderTicketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrNotFound
	}
	if !ticket.Active(in.IssueDate) {
		return nil, domain.ErrInvalidState
	}

	now := uc.clock()
	loan := &entity.Loan{
		ID:             uuid.New().String(),
		ReaderTicketID: in.ReaderTicketID,
		BookID:         in.BookID,
		IssueDate:      in.IssueDate,
		DueDate:        in.DueDate,
		DaysUntilDue:   domloan.DaysUntilDue(in.DueDate, nil, now),
		Status:         entity.StatusOnTime,
		PenaltyAmount:  decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.txRunner.RunLoan(ctx, func(
		loanRepo repository.LoanRepository,
		eventRepo repository.LedgerEventRepository,
		bookRepo repository.BookRepository,
	) error {
		book, err := bookRepo.GetForUpdate(in.BookID)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}
		if book.QuantityOnHand < 1 {
			return domain.ErrInsufficientStock
		}
		if err := loanRepo.Create(loan); err != nil {
			return err
		}
		ev := &entity.LedgerEvent{
			ID:        uuid.New().String(),
			BookID:    in.BookID,
			Kind:      entity.KindLoanIssue,
			Delta:     -1,
			Date:      in.IssueDate,
			CreatedAt: now,
		}
		if err := eventRepo.Create(ev); err != nil {
			return err
		}
		return bookRepo.UpdateQuantity(in.BookID, book.QuantityOnHand-1)
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Close cierra un préstamo en su primera devolución: fija ReturnDate,
// congela DaysUntilDue contra esa fecha y calcula la multa si hubo atraso.
// Emite LOAN_RETURN (+1) en la misma transacción; el incremento no puede
// fallar la verificación de stock. Re-enviar el cierre sobre un préstamo ya
// cerrado devuelve ErrInvalidState (el stock se incrementa exactamente una
// vez).
func (uc *UseCase) Close(ctx context.Context, loanID string, returnDate time.Time) (*entity.Loan, error) {
	if loanID == "" || returnDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	var closed *entity.Loan
	err := uc.txRunner.RunLoan(ctx, func(
		loanRepo repository.LoanRepository,
		eventRepo repository.LedgerEventRepository,
		bookRepo repository.BookRepository,
	) error {
		loan, err := loanRepo.GetForUpdate(loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if !loan.Open() {
			return domain.ErrInvalidState
		}
		if returnDate.Before(loan.IssueDate) {
			return domain.ErrInvalidInput
		}

		rd := returnDate
		days := domloan.DaysUntilDue(loan.DueDate, &rd, uc.clock())
		loan.ReturnDate = &rd
		loan.DaysUntilDue = days
		loan.PenaltyAmount = domloan.Penalty(days, uc.policy.RatePerDay)
		if days < 0 {
			loan.Status = entity.StatusReturnedLate
		} else {
			loan.Status = entity.StatusReturnedOnTime
		}
		loan.UpdatedAt = uc.clock()
		if err := loanRepo.Update(loan); err != nil {
			return err
		}

		ev := &entity.LedgerEvent{
			ID:        uuid.New().String(),
			BookID:    loan.BookID,
			Kind:      entity.KindLoanReturn,
			Delta:     1,
			Date:      returnDate,
			CreatedAt: uc.clock(),
		}
		if err := eventRepo.Create(ev); err != nil {
			return err
		}
		book, err := bookRepo.GetForUpdate(loan.BookID)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}
		if err := bookRepo.UpdateQuantity(loan.BookID, book.QuantityOnHand+1); err != nil {
			return err
		}
		closed = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

// MarkLost marca un préstamo abierto como perdido. No emite LOAN_RETURN: el
// ejemplar no vuelve al stock. La multa sale de la política configurada.
func (uc *UseCase) MarkLost(ctx context.Context, loanID string) (*entity.Loan, error) {
	if loanID == "" {
		return nil, domain.ErrInvalidInput
	}
	var lost *entity.Loan
	err := uc.txRunner.RunLoan(ctx, func(
		loanRepo repository.LoanRepository,
		_ repository.LedgerEventRepository,
		_ repository.BookRepository,
	) error {
		loan, err := loanRepo.GetForUpdate(loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if !loan.Open() {
			return domain.ErrInvalidState
		}
		loan.Status = entity.StatusLost
		loan.PenaltyAmount = uc.policy.LostAmount
		loan.DaysUntilDue = domloan.DaysUntilDue(loan.DueDate, nil, uc.clock())
		loan.UpdatedAt = uc.clock()
		if err := loanRepo.Update(loan); err != nil {
			return err
		}
		lost = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lost, nil
}

// DeleteClosed borra en lote los préstamos liquidados (devueltos a tiempo o
// con atraso pagado; los perdidos solo si la política lo permite). Devuelve
// la cantidad de filas eliminadas. No toca el ledger: es append-only.
func (uc *UseCase) DeleteClosed(ctx context.Context) (int, error) {
	_ = ctx
	statuses := []entity.LoanStatus{entity.StatusReturnedOnTime, entity.StatusReturnedLate}
	if uc.policy.DeleteLost {
		statuses = append(statuses, entity.StatusLost)
	}
	return uc.loanRepo.DeleteByStatus(statuses)
}

// Delete borra un préstamo cerrado. ErrInvalidState para préstamos abiertos.
func (uc *UseCase) Delete(ctx context.Context, loanID string) error {
	_ = ctx
	loan, err := uc.loanRepo.GetByID(loanID)
	if err != nil {
		return err
	}
	if loan == nil {
		return domain.ErrNotFound
	}
	if loan.Open() {
		return domain.ErrInvalidState
	}
	return uc.loanRepo.Delete(loanID)
}

// Get devuelve un préstamo con DaysUntilDue y estado efectivo recalculados a
// hoy. El estado persistido no es autoritativo para mostrar.
func (uc *UseCase) Get(ctx context.Context, loanID string) (*entity.Loan, error) {
	_ = ctx
	loan, err := uc.loanRepo.GetByID(loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrNotFound
	}
	return domloan.Derive(loan, uc.clock()), nil
}

// ListOpen lista los préstamos abiertos con derivados recalculados.
func (uc *UseCase) ListOpen(ctx context.Context, limit, offset int) ([]*entity.Loan, error) {
	_ = ctx
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.loanRepo.ListOpen(limit, offset)
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	out := make([]*entity.Loan, 0, len(list))
	for _, l := range list {
		out = append(out, domloan.Derive(l, now))
	}
	return out, nil
}

// ListByReader lista los préstamos de un carné con derivados recalculados.
func (uc *UseCase) ListByReader(ctx context.Context, readerTicketID string) ([]*entity.Loan, error) {
	_ = ctx
	if readerTicketID == "" {
		return nil, domain.ErrInvalidInput
	}
	ticket, err := uc.ticketRepo.GetByID(readerTicketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.loanRepo.ListByReader(readerTicketID)
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	out := make([]*entity.Loan, 0, len(list))
	for _, l := range list {
		out = append(out, domloan.Derive(l, now))
	}
	return out, nil
}
