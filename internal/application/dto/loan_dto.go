package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLoanRequest body para POST /api/loans.
type CreateLoanRequest struct {
	ReaderTicketID string    `json:"reader_ticket_id"`
	BookID         string    `json:"book_id"`
	IssueDate      time.Time `json:"issue_date"`
	DueDate        time.Time `json:"due_date"`
}

// CloseLoanRequest body para POST /api/loans/:id/close.
type CloseLoanRequest struct {
	ReturnDate time.Time `json:"return_date"`
}

// LoanResponse proyección de Loan con los campos derivados recalculados a la
// fecha de la consulta.
type LoanResponse struct {
	ID             string          `json:"id"`
	ReaderTicketID string          `json:"reader_ticket_id"`
	BookID         string          `json:"book_id"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        time.Time       `json:"due_date"`
	ReturnDate     *time.Time      `json:"return_date,omitempty"`
	DaysUntilDue   int             `json:"days_until_due"`
	Status         string          `json:"status"`
	StatusDisplay  string          `json:"status_display"`
	PenaltyAmount  decimal.Decimal `json:"penalty_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LoanListResponse listado de préstamos.
type LoanListResponse struct {
	Items []LoanResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// DeleteClosedResponse resultado del borrado en lote de préstamos cerrados.
type DeleteClosedResponse struct {
	Deleted int `json:"deleted"`
}
