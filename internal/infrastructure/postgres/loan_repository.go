package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

var _ repository.LoanRepository = (*LoanRepo)(nil)

const loanColumns = `id, reader_ticket_id, book_id, issue_date, due_date, return_date, days_until_due, status, penalty_amount, created_at, updated_at`

// LoanRepo implementación del puerto LoanRepository sobre PostgreSQL.
type LoanRepo struct {
	q Querier
}

// NewLoanRepository construye el adaptador de persistencia para préstamos.
func NewLoanRepository(q Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

// Create persiste un nuevo préstamo.
func (r *LoanRepo) Create(loan *entity.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		loan.ID, loan.ReaderTicketID, loan.BookID, loan.IssueDate, loan.DueDate,
		loan.ReturnDate, loan.DaysUntilDue, string(loan.Status), loan.PenaltyAmount,
		loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert loan", err)
	}
	return nil
}

// GetByID obtiene un préstamo por ID.
func (r *LoanRepo) GetByID(id string) (*entity.Loan, error) {
	return r.getOne(`SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del préstamo (SELECT FOR UPDATE).
func (r *LoanRepo) GetForUpdate(id string) (*entity.Loan, error) {
	return r.getOne(`SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
}

func (r *LoanRepo) getOne(query string, arg any) (*entity.Loan, error) {
	var l entity.Loan
	var status string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&l.ID, &l.ReaderTicketID, &l.BookID, &l.IssueDate, &l.DueDate,
		&l.ReturnDate, &l.DaysUntilDue, &status, &l.PenaltyAmount,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get loan", err)
	}
	l.Status = entity.LoanStatus(status)
	return &l, nil
}

// Update reescribe los campos mutables de un préstamo (transiciones de cierre
// y pérdida).
func (r *LoanRepo) Update(loan *entity.Loan) error {
	query := `
		UPDATE loans SET return_date = $2, days_until_due = $3, status = $4,
			penalty_amount = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		loan.ID, loan.ReturnDate, loan.DaysUntilDue, string(loan.Status),
		loan.PenaltyAmount, loan.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update loan", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListOpen devuelve préstamos abiertos (return_date NULL y no LOST), los más
// próximos a vencer primero.
func (r *LoanRepo) ListOpen(limit, offset int) ([]*entity.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE return_date IS NULL AND status <> 'LOST'
		ORDER BY due_date
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, wrapErr("list open loans", err)
	}
	defer rows.Close()
	return scanLoans(rows)
}

// ListByReader devuelve los préstamos asociados a un carné.
func (r *LoanRepo) ListByReader(readerTicketID string) ([]*entity.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE reader_ticket_id = $1
		ORDER BY issue_date DESC`
	rows, err := r.q.Query(context.Background(), query, readerTicketID)
	if err != nil {
		return nil, wrapErr("list loans by reader", err)
	}
	defer rows.Close()
	return scanLoans(rows)
}

// ListOverdue devuelve préstamos abiertos cuya fecha límite ya pasó a la
// fecha dada.
func (r *LoanRepo) ListOverdue(asOf time.Time) ([]*entity.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE return_date IS NULL AND status <> 'LOST' AND due_date < $1
		ORDER BY due_date`
	rows, err := r.q.Query(context.Background(), query, asOf)
	if err != nil {
		return nil, wrapErr("list overdue loans", err)
	}
	defer rows.Close()
	return scanLoans(rows)
}

// DeleteByStatus borra en lote los préstamos con alguno de los estados dados
// y devuelve la cantidad eliminada.
func (r *LoanRepo) DeleteByStatus(statuses []entity.LoanStatus) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM loans WHERE status = ANY($1)`, values,
	)
	if err != nil {
		return 0, wrapErr("delete loans by status", err)
	}
	return int(cmd.RowsAffected()), nil
}

// Delete elimina un préstamo por ID.
func (r *LoanRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete loan", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLoans(rows pgx.Rows) ([]*entity.Loan, error) {
	var list []*entity.Loan
	for rows.Next() {
		var l entity.Loan
		var status string
		if err := rows.Scan(
			&l.ID, &l.ReaderTicketID, &l.BookID, &l.IssueDate, &l.DueDate,
			&l.ReturnDate, &l.DaysUntilDue, &status, &l.PenaltyAmount,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, wrapErr("scan loan", err)
		}
		l.Status = entity.LoanStatus(status)
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate loans", err)
	}
	return list, nil
}
