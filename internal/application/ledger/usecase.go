package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// UseCase es el motor del ledger de stock: registra eventos de forma
// transaccional con bloqueo de fila (SELECT FOR UPDATE) y mantiene las
// cantidades cacheadas de Book y Location sincronizadas con el fold.
// La verificación de stock no negativo rechaza la operación completa;
// nunca se recorta a cero (el cache divergiría del fold del ledger).
type UseCase struct {
	txRunner     TxRunner
	eventRepo    repository.LedgerEventRepository
	bookRepo     repository.BookRepository
	locationRepo repository.LocationRepository
	clock        func() time.Time
}

// NewUseCase construye el caso de uso. Los repositorios sueltos se usan para
// lecturas fuera de transacción; las escrituras pasan por txRunner.
func NewUseCase(
	txRunner TxRunner,
	eventRepo repository.LedgerEventRepository,
	bookRepo repository.BookRepository,
	locationRepo repository.LocationRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		eventRepo:    eventRepo,
		bookRepo:     bookRepo,
		locationRepo: locationRepo,
		clock:        time.Now,
	}
}

// WithClock reemplaza el reloj (inyectable para tests).
func (uc *UseCase) WithClock(clock func() time.Time) *UseCase {
	uc.clock = clock
	return uc
}

// AppendEventInput entrada para registrar un evento del ledger.
// RECEIPT: delta > 0, location_id opcional. WRITE_OFF: delta < 0.
// LOAN_ISSUE: delta == -1. LOAN_RETURN: delta == +1.
// TRANSFER: delta > 0, prev_location_id (origen) y location_id (destino).
type AppendEventInput struct {
	BookID         string
	Kind           entity.EventKind
	Delta          int
	Date           time.Time
	LocationID     string
	PrevLocationID string
}

func (in *AppendEventInput) validate() error {
	if in.BookID == "" || !in.Kind.Valid() {
		return domain.ErrInvalidInput
	}
	switch in.Kind {
	case entity.KindReceipt:
		if in.Delta <= 0 {
			return domain.ErrInvalidInput
		}
	case entity.KindWriteOff:
		if in.Delta >= 0 {
			return domain.ErrInvalidInput
		}
	case entity.KindLoanIssue:
		if in.Delta != -1 {
			return domain.ErrInvalidInput
		}
	case entity.KindLoanReturn:
		if in.Delta != 1 {
			return domain.ErrInvalidInput
		}
	case entity.KindTransfer:
		if in.Delta <= 0 || in.LocationID == "" || in.PrevLocationID == "" ||
			in.LocationID == in.PrevLocationID {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// AppendEvent valida el evento, bloquea la fila del libro y persiste la fila
// del ledger junto con las cantidades actualizadas como una unidad atómica.
// Un TRANSFER genera dos filas (salida en origen, entrada en destino) con
// suma cero, así el fold global del libro no cambia. Devuelve el ID del
// evento creado (el de salida en un TRANSFER).
func (uc *UseCase) AppendEvent(ctx context.Context, input AppendEventInput) (string, error) {
	if err := input.validate(); err != nil {
		return "", err
	}
	date := input.Date
	if date.IsZero() {
		date = uc.clock()
	}
	eventID := uuid.New().String()
	now := uc.clock()

	err := uc.txRunner.Run(ctx, func(
		eventRepo repository.LedgerEventRepository,
		bookRepo repository.BookRepository,
		locationRepo repository.LocationRepository,
	) error {
		// Bloquea la fila del libro: la verificación de stock nunca se hace
		// contra una cantidad obsoleta (serializa appends concurrentes).
		book, err := bookRepo.GetForUpdate(input.BookID)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}

		if input.Kind == entity.KindTransfer {
			return uc.doTransfer(eventRepo, locationRepo, input, eventID, date, now)
		}

		newQty := book.QuantityOnHand + input.Delta
		if newQty < 0 {
			return domain.ErrInsufficientStock
		}
		if input.LocationID != "" {
			if err := uc.applyLocationDelta(locationRepo, input.LocationID, input.Delta); err != nil {
				return err
			}
		}
		ev := &entity.LedgerEvent{
			ID:         eventID,
			BookID:     input.BookID,
			LocationID: input.LocationID,
			Kind:       input.Kind,
			Delta:      input.Delta,
			Date:       date,
			CreatedAt:  now,
		}
		if err := eventRepo.Create(ev); err != nil {
			return err
		}
		return bookRepo.UpdateQuantity(input.BookID, newQty)
	})
	if err != nil {
		return "", err
	}
	return eventID, nil
}

// doTransfer resta en la ubicación de origen y suma en la de destino, dentro
// de la transacción del caller; registra dos filas TRANSFER de suma cero.
func (uc *UseCase) doTransfer(
	eventRepo repository.LedgerEventRepository,
	locationRepo repository.LocationRepository,
	input AppendEventInput,
	eventID string,
	date, now time.Time,
) error {
	if err := uc.applyLocationDelta(locationRepo, input.PrevLocationID, -input.Delta); err != nil {
		return err
	}
	if err := uc.applyLocationDelta(locationRepo, input.LocationID, input.Delta); err != nil {
		return err
	}
	out := &entity.LedgerEvent{
		ID:         eventID,
		BookID:     input.BookID,
		LocationID: input.PrevLocationID,
		Kind:       entity.KindTransfer,
		Delta:      -input.Delta,
		Date:       date,
		CreatedAt:  now,
	}
	if err := eventRepo.Create(out); err != nil {
		return err
	}
	in := &entity.LedgerEvent{
		ID:             uuid.New().String(),
		BookID:         input.BookID,
		LocationID:     input.LocationID,
		PrevLocationID: input.PrevLocationID,
		Kind:           entity.KindTransfer,
		Delta:          input.Delta,
		Date:           date,
		CreatedAt:      now,
	}
	return eventRepo.Create(in)
}

// applyLocationDelta bloquea la fila de la ubicación, verifica que la
// cantidad resultante no sea negativa y la persiste.
func (uc *UseCase) applyLocationDelta(
	locationRepo repository.LocationRepository,
	locationID string,
	delta int,
) error {
	loc, err := locationRepo.GetForUpdate(locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	newAmount := loc.Amount + delta
	if newAmount < 0 {
		return domain.ErrInsufficientStock
	}
	return locationRepo.UpdateAmount(locationID, newAmount)
}

// DeleteEvent elimina administrativamente una fila del ledger y revierte las
// cantidades cacheadas en la misma transacción, para que la propiedad
// "cache == fold" se sostenga después del borrado.
func (uc *UseCase) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		eventRepo repository.LedgerEventRepository,
		bookRepo repository.BookRepository,
		locationRepo repository.LocationRepository,
	) error {
		ev, err := eventRepo.GetByID(eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return domain.ErrNotFound
		}
		book, err := bookRepo.GetForUpdate(ev.BookID)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}
		// Todas las verificaciones ocurren antes de la primera escritura.
		// Las filas TRANSFER no afectan el total del libro; el resto sí.
		newQty := book.QuantityOnHand - ev.Delta
		if ev.Kind != entity.KindTransfer && newQty < 0 {
			return domain.ErrInsufficientStock
		}
		var newAmount int
		if ev.LocationID != "" {
			loc, err := locationRepo.GetForUpdate(ev.LocationID)
			if err != nil {
				return err
			}
			if loc == nil {
				return domain.ErrNotFound
			}
			newAmount = loc.Amount - ev.Delta
			if newAmount < 0 {
				return domain.ErrInsufficientStock
			}
		}

		if ev.Kind != entity.KindTransfer {
			if err := bookRepo.UpdateQuantity(ev.BookID, newQty); err != nil {
				return err
			}
		}
		if ev.LocationID != "" {
			if err := locationRepo.UpdateAmount(ev.LocationID, newAmount); err != nil {
				return err
			}
		}
		return eventRepo.Delete(eventID)
	})
}

// GetStock devuelve la cantidad cacheada de un libro.
func (uc *UseCase) GetStock(ctx context.Context, bookID string) (int, error) {
	_ = ctx
	book, err := uc.bookRepo.GetByID(bookID)
	if err != nil {
		return 0, err
	}
	if book == nil {
		return 0, domain.ErrNotFound
	}
	return book.QuantityOnHand, nil
}

// NetQuantity pliega el ledger completo del libro. Debe coincidir con la
// cantidad cacheada; el cache es una optimización, no una segunda verdad.
func (uc *UseCase) NetQuantity(ctx context.Context, bookID string) (int, error) {
	_ = ctx
	book, err := uc.bookRepo.GetByID(bookID)
	if err != nil {
		return 0, err
	}
	if book == nil {
		return 0, domain.ErrNotFound
	}
	return uc.eventRepo.SumDeltas(bookID)
}

// ReconcileResult resultado de la verificación cache vs. fold.
type ReconcileResult struct {
	Cached     int
	LedgerFold int
}

// Consistent reporta si el cache coincide con el fold.
func (r ReconcileResult) Consistent() bool { return r.Cached == r.LedgerFold }

// Reconcile compara la cantidad cacheada con el fold del ledger.
func (uc *UseCase) Reconcile(ctx context.Context, bookID string) (ReconcileResult, error) {
	book, err := uc.bookRepo.GetByID(bookID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if book == nil {
		return ReconcileResult{}, domain.ErrNotFound
	}
	fold, err := uc.eventRepo.SumDeltas(bookID)
	if err != nil {
		return ReconcileResult{}, err
	}
	return ReconcileResult{Cached: book.QuantityOnHand, LedgerFold: fold}, nil
}

// History devuelve el historial de eventos de un libro, más recientes
// primero, paginado sin huecos ni duplicados entre ventanas consecutivas.
func (uc *UseCase) History(ctx context.Context, bookID string, limit, offset int) ([]*entity.LedgerEvent, error) {
	_ = ctx
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	book, err := uc.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrNotFound
	}
	return uc.eventRepo.ListByBook(bookID, limit, offset)
}
