package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/biblioteca-api/internal/application/dto"
	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// BookUseCase casos de uso CRUD del catálogo de libros. El stock NO se toca
// acá: la cantidad cacheada solo cambia a través del motor del ledger.
type BookUseCase struct {
	repo repository.BookRepository
}

// NewBookUseCase construye el caso de uso.
func NewBookUseCase(repo repository.BookRepository) *BookUseCase {
	return &BookUseCase{repo: repo}
}

// Create registra un libro nuevo con stock cero.
// Devuelve ErrDuplicate si el ISBN ya existe.
func (uc *BookUseCase) Create(in dto.CreateBookRequest) (*dto.BookResponse, error) {
	if in.ISBN == "" || in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByISBN(in.ISBN)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	book := &entity.Book{
		ID:          uuid.New().String(),
		ISBN:        in.ISBN,
		Title:       in.Title,
		Description: in.Description,
		PublishYear: in.PublishYear,
		Pages:       in.Pages,
		Language:    in.Language,
		Publisher:   in.Publisher,
		CoverURL:    in.CoverURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(book); err != nil {
		return nil, err
	}
	return toBookResponse(book), nil
}

// GetByID obtiene un libro por ID.
func (uc *BookUseCase) GetByID(id string) (*dto.BookResponse, error) {
	book, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}
	return toBookResponse(book), nil
}

// Update actualiza metadatos del libro (no el stock).
func (uc *BookUseCase) Update(id string, in dto.UpdateBookRequest) (*dto.BookResponse, error) {
	book, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}
	if in.Title != nil {
		book.Title = *in.Title
	}
	if in.Description != nil {
		book.Description = *in.Description
	}
	if in.PublishYear != nil {
		book.PublishYear = *in.PublishYear
	}
	if in.Pages != nil {
		book.Pages = *in.Pages
	}
	if in.Language != nil {
		book.Language = *in.Language
	}
	if in.Publisher != nil {
		book.Publisher = *in.Publisher
	}
	if in.CoverURL != nil {
		book.CoverURL = *in.CoverURL
	}
	book.UpdatedAt = time.Now()
	if err := uc.repo.Update(book); err != nil {
		return nil, err
	}
	return toBookResponse(book), nil
}

// List lista libros con paginación.
func (uc *BookUseCase) List(limit, offset int) (*dto.BookListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	return toBookList(list, limit, offset), nil
}

// Search busca por título/ISBN/editorial. El término se normaliza sin
// acentos para que "Garcia" encuentre "García".
func (uc *BookUseCase) Search(q string, limit, offset int) (*dto.BookListResponse, error) {
	list, err := uc.repo.Search(Normalize(q), limit, offset)
	if err != nil {
		return nil, err
	}
	return toBookList(list, limit, offset), nil
}

// Delete elimina un libro por ID.
func (uc *BookUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toBookList(list []*entity.Book, limit, offset int) *dto.BookListResponse {
	items := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBookResponse(b))
	}
	return &dto.BookListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}

func toBookResponse(b *entity.Book) *dto.BookResponse {
	if b == nil {
		return nil
	}
	return &dto.BookResponse{
		ID:             b.ID,
		ISBN:           b.ISBN,
		Title:          b.Title,
		Description:    b.Description,
		PublishYear:    b.PublishYear,
		Pages:          b.Pages,
		Language:       b.Language,
		Publisher:      b.Publisher,
		CoverURL:       b.CoverURL,
		QuantityOnHand: b.QuantityOnHand,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
