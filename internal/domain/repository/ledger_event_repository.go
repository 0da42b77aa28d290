package repository

import "github.com/jhoicas/biblioteca-api/internal/domain/entity"

// LedgerEventRepository define el puerto de persistencia del ledger de stock.
// El ledger es append-only: no hay Update; Delete existe solo para la
// eliminación administrativa, que el caso de uso compensa revirtiendo las
// cantidades cacheadas en la misma transacción.
type LedgerEventRepository interface {
	Create(event *entity.LedgerEvent) error
	GetByID(id string) (*entity.LedgerEvent, error)
	// ListByBook devuelve los eventos de un libro, más recientes primero
	// (date DESC, desempate por orden de inserción).
	ListByBook(bookID string, limit, offset int) ([]*entity.LedgerEvent, error)
	// SumDeltas pliega el ledger de un libro excluyendo las filas TRANSFER
	// (son movimientos entre ubicaciones, de suma cero para el total del
	// libro); es la fuente de verdad contra la que se verifica la cantidad
	// cacheada.
	SumDeltas(bookID string) (int, error)
	Delete(id string) error
}
