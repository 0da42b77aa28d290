package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/biblioteca-api/internal/application/ledger"
	"github.com/jhoicas/biblioteca-api/internal/application/loan"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and loan.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ loan.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Usado por el motor del ledger: evento y cantidades
// cacheadas se persisten juntos o ninguno.
func (r *TxRunner) Run(ctx context.Context, fn func(
	eventRepo repository.LedgerEventRepository,
	bookRepo repository.BookRepository,
	locationRepo repository.LocationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	eventRepo := NewLedgerEventRepository(tx)
	bookRepo := NewBookRepository(tx)
	locationRepo := NewLocationRepository(tx)

	if err := fn(eventRepo, bookRepo, locationRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// RunLoan inicia una transacción con los repos de una transición de préstamo
// (fila del préstamo, evento del ledger y cantidad del libro).
func (r *TxRunner) RunLoan(ctx context.Context, fn func(
	loanRepo repository.LoanRepository,
	eventRepo repository.LedgerEventRepository,
	bookRepo repository.BookRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	loanRepo := NewLoanRepository(tx)
	eventRepo := NewLedgerEventRepository(tx)
	bookRepo := NewBookRepository(tx)

	if err := fn(loanRepo, eventRepo, bookRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}
