package ledger

import (
	"context"

	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre la fila del
// ledger y las cantidades cacheadas: o se persisten juntas o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		eventRepo repository.LedgerEventRepository,
		bookRepo repository.BookRepository,
		locationRepo repository.LocationRepository,
	) error) error
}
