package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

var _ repository.BookRepository = (*BookRepo)(nil)

const bookColumns = `id, isbn, title, description, publish_year, pages, language, publisher, cover_url, quantity_on_hand, created_at, updated_at`

// BookRepo implementación del puerto BookRepository sobre PostgreSQL (usable con pool o tx).
type BookRepo struct {
	q Querier
}

// NewBookRepository construye el adaptador de persistencia para libros. Pasar pool o tx (Querier).
func NewBookRepository(q Querier) *BookRepo {
	return &BookRepo{q: q}
}

// Create persiste un nuevo libro. QuantityOnHand inicia en 0; solo el motor
// del ledger la modifica después.
func (r *BookRepo) Create(book *entity.Book) error {
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		book.ID, book.ISBN, book.Title, book.Description, book.PublishYear,
		book.Pages, book.Language, book.Publisher, book.CoverURL,
		book.QuantityOnHand, book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert book", err)
	}
	return nil
}

// GetByID obtiene un libro por ID.
func (r *BookRepo) GetByID(id string) (*entity.Book, error) {
	return r.getOne(`SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

// GetByISBN obtiene un libro por ISBN.
func (r *BookRepo) GetByISBN(isbn string) (*entity.Book, error) {
	return r.getOne(`SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn)
}

// GetForUpdate bloquea la fila del libro (SELECT FOR UPDATE). Solo tiene
// sentido dentro de una transacción del TxRunner.
func (r *BookRepo) GetForUpdate(id string) (*entity.Book, error) {
	return r.getOne(`SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookRepo) getOne(query string, arg any) (*entity.Book, error) {
	var b entity.Book
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Description, &b.PublishYear,
		&b.Pages, &b.Language, &b.Publisher, &b.CoverURL,
		&b.QuantityOnHand, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get book", err)
	}
	return &b, nil
}

// Update actualiza los datos de catálogo. No toca quantity_on_hand (se maneja
// vía el ledger con UpdateQuantity).
func (r *BookRepo) Update(book *entity.Book) error {
	query := `
		UPDATE books SET isbn = $2, title = $3, description = $4, publish_year = $5,
			pages = $6, language = $7, publisher = $8, cover_url = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		book.ID, book.ISBN, book.Title, book.Description, book.PublishYear,
		book.Pages, book.Language, book.Publisher, book.CoverURL, book.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("update book", err)
	}
	return nil
}

// UpdateQuantity actualiza solo la cantidad cacheada (usado por el motor del ledger).
func (r *BookRepo) UpdateQuantity(bookID string, quantity int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE books SET quantity_on_hand = $2, updated_at = now() WHERE id = $1`,
		bookID, quantity,
	)
	if err != nil {
		return wrapErr("update book quantity", err)
	}
	return nil
}

// List lista libros con paginación.
func (r *BookRepo) List(limit, offset int) ([]*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY title LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, wrapErr("list books", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

// Search busca por título, descripción o editorial. Recibe el término ya
// normalizado (minúsculas, sin diacríticos) desde el caso de uso.
func (r *BookRepo) Search(q string, limit, offset int) ([]*entity.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE '%' || $1 || '%'
			OR publisher ILIKE '%' || $1 || '%'
			OR description ILIKE '%' || $1 || '%'
		ORDER BY title LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, q, limit, offset)
	if err != nil {
		return nil, wrapErr("search books", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

// Delete elimina un libro por ID.
func (r *BookRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete book", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBooks(rows pgx.Rows) ([]*entity.Book, error) {
	var list []*entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(
			&b.ID, &b.ISBN, &b.Title, &b.Description, &b.PublishYear,
			&b.Pages, &b.Language, &b.Publisher, &b.CoverURL,
			&b.QuantityOnHand, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, wrapErr("scan book", err)
		}
		list = append(list, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate books", err)
	}
	return list, nil
}
