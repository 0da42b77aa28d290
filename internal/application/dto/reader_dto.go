package dto

import "time"

// CreateReaderRequest body para POST /api/readers.
type CreateReaderRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ReaderResponse proyección de Reader para la API.
type ReaderResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReaderListResponse listado paginado de lectores.
type ReaderListResponse struct {
	Items []ReaderResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreateTicketRequest body para POST /api/readers/:id/tickets.
type CreateTicketRequest struct {
	RegistrationDate time.Time  `json:"registration_date"`
	EndTime          *time.Time `json:"end_time,omitempty"`
}

// TicketResponse proyección de ReaderTicket para la API.
type TicketResponse struct {
	ID               string     `json:"id"`
	ReaderID         string     `json:"reader_id"`
	RegistrationDate time.Time  `json:"registration_date"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
}
