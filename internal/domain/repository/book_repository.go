package repository

import "github.com/jhoicas/biblioteca-api/internal/domain/entity"

// BookRepository define el puerto de persistencia para Book (DIP).
// UpdateQuantity solo debe invocarse desde el motor del ledger, dentro de la
// misma transacción que registra el evento.
type BookRepository interface {
	Create(book *entity.Book) error
	GetByID(id string) (*entity.Book, error)
	GetByISBN(isbn string) (*entity.Book, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Book, error)
	Update(book *entity.Book) error
	UpdateQuantity(bookID string, quantity int) error
	List(limit, offset int) ([]*entity.Book, error)
	Search(q string, limit, offset int) ([]*entity.Book, error)
	Delete(id string) error
}
