package dto

import "time"

// CreateBookRequest body para POST /api/books.
type CreateBookRequest struct {
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PublishYear int    `json:"publish_year,omitempty"`
	Pages       int    `json:"pages,omitempty"`
	Language    string `json:"language,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
}

// UpdateBookRequest body para PUT /api/books/:id (campos opcionales).
type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	PublishYear *int    `json:"publish_year,omitempty"`
	Pages       *int    `json:"pages,omitempty"`
	Language    *string `json:"language,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
}

// BookResponse proyección de Book para la API.
type BookResponse struct {
	ID             string    `json:"id"`
	ISBN           string    `json:"isbn"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	PublishYear    int       `json:"publish_year,omitempty"`
	Pages          int       `json:"pages,omitempty"`
	Language       string    `json:"language,omitempty"`
	Publisher      string    `json:"publisher,omitempty"`
	CoverURL       string    `json:"cover_url,omitempty"`
	QuantityOnHand int       `json:"quantity_on_hand"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BookListResponse listado paginado de libros.
type BookListResponse struct {
	Items []BookResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
