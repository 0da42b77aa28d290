package repository

import "github.com/jhoicas/biblioteca-api/internal/domain/entity"

// ReaderRepository define el puerto de persistencia para Reader (DIP).
type ReaderRepository interface {
	Create(reader *entity.Reader) error
	GetByID(id string) (*entity.Reader, error)
	Update(reader *entity.Reader) error
	List(limit, offset int) ([]*entity.Reader, error)
	Delete(id string) error
}

// ReaderTicketRepository define el puerto de persistencia para ReaderTicket.
type ReaderTicketRepository interface {
	Create(ticket *entity.ReaderTicket) error
	GetByID(id string) (*entity.ReaderTicket, error)
	ListByReader(readerID string) ([]*entity.ReaderTicket, error)
	List(limit, offset int) ([]*entity.ReaderTicket, error)
	Delete(id string) error
}
