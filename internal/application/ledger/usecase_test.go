package ledger_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/biblioteca-api/internal/application/ledger"
	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeEventRepo struct {
	events []*entity.LedgerEvent
	seq    int
	order  map[string]int // id -> orden de inserción
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{order: map[string]int{}}
}

func (r *fakeEventRepo) Create(e *entity.LedgerEvent) error {
	cp := *e
	r.seq++
	r.order[cp.ID] = r.seq
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeEventRepo) GetByID(id string) (*entity.LedgerEvent, error) {
	for _, e := range r.events {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeEventRepo) ListByBook(bookID string, limit, offset int) ([]*entity.LedgerEvent, error) {
	var all []*entity.LedgerEvent
	for _, e := range r.events {
		if e.BookID == bookID {
			all = append(all, e)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return r.order[all[i].ID] > r.order[all[j].ID]
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeEventRepo) SumDeltas(bookID string) (int, error) {
	sum := 0
	for _, e := range r.events {
		if e.BookID == bookID && e.Kind != entity.KindTransfer {
			sum += e.Delta
		}
	}
	return sum, nil
}

func (r *fakeEventRepo) Delete(id string) error {
	for i, e := range r.events {
		if e.ID == id {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeBookRepo struct {
	books map[string]*entity.Book
}

func newFakeBookRepo(books ...*entity.Book) *fakeBookRepo {
	m := map[string]*entity.Book{}
	for _, b := range books {
		m[b.ID] = b
	}
	return &fakeBookRepo{books: m}
}

func (r *fakeBookRepo) Create(b *entity.Book) error { r.books[b.ID] = b; return nil }
func (r *fakeBookRepo) GetByID(id string) (*entity.Book, error) {
	if b, ok := r.books[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}
func (r *fakeBookRepo) GetByISBN(string) (*entity.Book, error) { return nil, nil }
func (r *fakeBookRepo) GetForUpdate(id string) (*entity.Book, error) {
	return r.GetByID(id)
}
func (r *fakeBookRepo) Update(b *entity.Book) error { r.books[b.ID] = b; return nil }
func (r *fakeBookRepo) UpdateQuantity(bookID string, quantity int) error {
	b, ok := r.books[bookID]
	if !ok {
		return domain.ErrNotFound
	}
	b.QuantityOnHand = quantity
	return nil
}
func (r *fakeBookRepo) List(int, int) ([]*entity.Book, error)           { return nil, nil }
func (r *fakeBookRepo) Search(string, int, int) ([]*entity.Book, error) { return nil, nil }
func (r *fakeBookRepo) Delete(id string) error                          { delete(r.books, id); return nil }

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

func newFakeLocationRepo(locs ...*entity.Location) *fakeLocationRepo {
	m := map[string]*entity.Location{}
	for _, l := range locs {
		m[l.ID] = l
	}
	return &fakeLocationRepo{locations: m}
}

func (r *fakeLocationRepo) Create(l *entity.Location) error { r.locations[l.ID] = l; return nil }
func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	if l, ok := r.locations[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}
func (r *fakeLocationRepo) GetByName(string) (*entity.Location, error) { return nil, nil }
func (r *fakeLocationRepo) GetForUpdate(id string) (*entity.Location, error) {
	return r.GetByID(id)
}
func (r *fakeLocationRepo) UpdateAmount(locationID string, amount int) error {
	l, ok := r.locations[locationID]
	if !ok {
		return domain.ErrNotFound
	}
	l.Amount = amount
	return nil
}
func (r *fakeLocationRepo) List(int, int) ([]*entity.Location, error) { return nil, nil }
func (r *fakeLocationRepo) Delete(id string) error                    { delete(r.locations, id); return nil }

// fakeTxRunner pasa los fakes directo al callback. Las verificaciones del
// caso de uso ocurren antes de cualquier escritura, así que no hace falta
// emular rollback.
type fakeTxRunner struct {
	events    *fakeEventRepo
	books     *fakeBookRepo
	locations *fakeLocationRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	repository.LedgerEventRepository,
	repository.BookRepository,
	repository.LocationRepository,
) error) error {
	return fn(r.events, r.books, r.locations)
}

func newLedgerUC(books *fakeBookRepo, locs *fakeLocationRepo, events *fakeEventRepo) *ledger.UseCase {
	runner := &fakeTxRunner{events: events, books: books, locations: locs}
	return ledger.NewUseCase(runner, events, books, locs)
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// AppendEvent
// ──────────────────────────────────────────────────────────────────────────────

func TestAppendEvent_RecepcionActualizaCacheYLedger(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 0})
	events := newFakeEventRepo()
	uc := newLedgerUC(books, newFakeLocationRepo(), events)

	id, err := uc.AppendEvent(context.Background(), ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindReceipt, Delta: 5, Date: day(1),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	qty, err := uc.GetStock(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	res, err := uc.Reconcile(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, res.Consistent())
}

func TestAppendEvent_BajaPorDebajoDeCeroSeRechaza(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 3})
	events := newFakeEventRepo()
	uc := newLedgerUC(books, newFakeLocationRepo(), events)

	_, err := uc.AppendEvent(context.Background(), ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindWriteOff, Delta: -5, Date: day(1),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rechazo total: ni evento ni cambio de cantidad
	assert.Empty(t, events.events)
	qty, _ := uc.GetStock(context.Background(), "b1")
	assert.Equal(t, 3, qty)
}

func TestAppendEvent_ReglasDeSigno(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 10})
	uc := newLedgerUC(books, newFakeLocationRepo(), newFakeEventRepo())

	cases := []ledger.AppendEventInput{
		{BookID: "b1", Kind: entity.KindReceipt, Delta: 0},
		{BookID: "b1", Kind: entity.KindReceipt, Delta: -2},
		{BookID: "b1", Kind: entity.KindWriteOff, Delta: 2},
		{BookID: "b1", Kind: entity.KindLoanIssue, Delta: -2},
		{BookID: "b1", Kind: entity.KindLoanReturn, Delta: 2},
		{BookID: "b1", Kind: entity.EventKind("UNKNOWN"), Delta: 1},
		{BookID: "", Kind: entity.KindReceipt, Delta: 1},
	}
	for _, in := range cases {
		_, err := uc.AppendEvent(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "input %+v", in)
	}
}

func TestAppendEvent_LibroInexistente(t *testing.T) {
	uc := newLedgerUC(newFakeBookRepo(), newFakeLocationRepo(), newFakeEventRepo())

	_, err := uc.AppendEvent(context.Background(), ledger.AppendEventInput{
		BookID: "nope", Kind: entity.KindReceipt, Delta: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppendEvent_SecuenciaMantieneCacheIgualAlFold(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 0})
	events := newFakeEventRepo()
	uc := newLedgerUC(books, newFakeLocationRepo(), events)
	ctx := context.Background()

	steps := []ledger.AppendEventInput{
		{BookID: "b1", Kind: entity.KindReceipt, Delta: 10, Date: day(1)},
		{BookID: "b1", Kind: entity.KindLoanIssue, Delta: -1, Date: day(2)},
		{BookID: "b1", Kind: entity.KindWriteOff, Delta: -3, Date: day(3)},
		{BookID: "b1", Kind: entity.KindLoanReturn, Delta: 1, Date: day(4)},
	}
	for _, in := range steps {
		_, err := uc.AppendEvent(ctx, in)
		require.NoError(t, err)

		res, err := uc.Reconcile(ctx, "b1")
		require.NoError(t, err)
		assert.True(t, res.Consistent(), "cache %d vs fold %d", res.Cached, res.LedgerFold)
	}

	qty, _ := uc.GetStock(ctx, "b1")
	assert.Equal(t, 7, qty)
	net, err := uc.NetQuantity(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 7, net)
}

// ──────────────────────────────────────────────────────────────────────────────
// TRANSFER
// ──────────────────────────────────────────────────────────────────────────────

func TestAppendEvent_TransferMueveEntreUbicaciones(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 0})
	locs := newFakeLocationRepo(
		&entity.Location{ID: "sala", Amount: 5},
		&entity.Location{ID: "deposito", Amount: 3},
	)
	events := newFakeEventRepo()
	uc := newLedgerUC(books, locs, events)
	ctx := context.Background()

	// El stock entra por el ledger, nunca sembrado a mano en el cache
	_, err := uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindReceipt, Delta: 8, Date: day(1),
	})
	require.NoError(t, err)

	_, err = uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindTransfer, Delta: 2,
		PrevLocationID: "sala", LocationID: "deposito", Date: day(5),
	})
	require.NoError(t, err)

	sala, _ := locs.GetByID("sala")
	deposito, _ := locs.GetByID("deposito")
	assert.Equal(t, 3, sala.Amount)
	assert.Equal(t, 5, deposito.Amount)

	// El total del libro no cambia: dos filas de suma cero, excluidas del fold
	qty, _ := uc.GetStock(ctx, "b1")
	assert.Equal(t, 8, qty)
	require.Len(t, events.events, 3)
	assert.Equal(t, 0, events.events[1].Delta+events.events[2].Delta)

	res, err := uc.Reconcile(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, res.Consistent())
}

func TestAppendEvent_TransferSinSaldoEnOrigen(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 8})
	locs := newFakeLocationRepo(
		&entity.Location{ID: "sala", Amount: 1},
		&entity.Location{ID: "deposito", Amount: 0},
	)
	events := newFakeEventRepo()
	uc := newLedgerUC(books, locs, events)

	_, err := uc.AppendEvent(context.Background(), ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindTransfer, Delta: 4,
		PrevLocationID: "sala", LocationID: "deposito",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, events.events)
}

func TestAppendEvent_TransferMismaUbicacion(t *testing.T) {
	uc := newLedgerUC(newFakeBookRepo(), newFakeLocationRepo(), newFakeEventRepo())

	_, err := uc.AppendEvent(context.Background(), ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindTransfer, Delta: 1,
		PrevLocationID: "sala", LocationID: "sala",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteEvent
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteEvent_RevierteCantidades(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 0})
	locs := newFakeLocationRepo(&entity.Location{ID: "sala", Amount: 0})
	events := newFakeEventRepo()
	uc := newLedgerUC(books, locs, events)
	ctx := context.Background()

	id, err := uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindReceipt, Delta: 5, LocationID: "sala", Date: day(1),
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteEvent(ctx, id))

	qty, _ := uc.GetStock(ctx, "b1")
	assert.Equal(t, 0, qty)
	sala, _ := locs.GetByID("sala")
	assert.Equal(t, 0, sala.Amount)

	res, err := uc.Reconcile(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, res.Consistent())
}

func TestDeleteEvent_RechazaSiDejaStockNegativo(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 0})
	events := newFakeEventRepo()
	uc := newLedgerUC(books, newFakeLocationRepo(), events)
	ctx := context.Background()

	id, err := uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindReceipt, Delta: 3, Date: day(1),
	})
	require.NoError(t, err)
	_, err = uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindWriteOff, Delta: -3, Date: day(2),
	})
	require.NoError(t, err)

	// Borrar la recepción dejaría la cantidad en -3
	err = uc.DeleteEvent(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, events.events, 2)
}

func TestDeleteEvent_FilaTransferNoTocaElTotalDelLibro(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 0})
	locs := newFakeLocationRepo(
		&entity.Location{ID: "sala", Amount: 5},
		&entity.Location{ID: "deposito", Amount: 3},
	)
	events := newFakeEventRepo()
	uc := newLedgerUC(books, locs, events)
	ctx := context.Background()

	// El stock entra por el ledger, nunca sembrado a mano en el cache
	_, err := uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindReceipt, Delta: 8, Date: day(1),
	})
	require.NoError(t, err)

	_, err = uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindTransfer, Delta: 2,
		PrevLocationID: "sala", LocationID: "deposito",
	})
	require.NoError(t, err)
	require.Len(t, events.events, 3)

	// Borrar la fila de entrada al destino revierte solo esa ubicación
	var inboundID string
	for _, e := range events.events {
		if e.Kind == entity.KindTransfer && e.Delta > 0 {
			inboundID = e.ID
		}
	}
	require.NoError(t, uc.DeleteEvent(ctx, inboundID))

	qty, _ := uc.GetStock(ctx, "b1")
	assert.Equal(t, 8, qty)
	deposito, _ := locs.GetByID("deposito")
	assert.Equal(t, 3, deposito.Amount)

	res, err := uc.Reconcile(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, res.Consistent())
}

func TestDeleteEvent_RechazaSiLaUbicacionQuedaNegativa(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 0})
	locs := newFakeLocationRepo(
		&entity.Location{ID: "sala", Amount: 0},
		&entity.Location{ID: "deposito", Amount: 0},
	)
	events := newFakeEventRepo()
	uc := newLedgerUC(books, locs, events)
	ctx := context.Background()

	id, err := uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindReceipt, Delta: 5, LocationID: "sala", Date: day(1),
	})
	require.NoError(t, err)
	_, err = uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindTransfer, Delta: 5,
		PrevLocationID: "sala", LocationID: "deposito", Date: day(2),
	})
	require.NoError(t, err)

	// Revertir la recepción dejaría sala en -5 aunque el total del libro
	// quedaría en 0: se rechaza sin tocar ninguna cantidad.
	err = uc.DeleteEvent(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	qty, _ := uc.GetStock(ctx, "b1")
	assert.Equal(t, 5, qty)
	sala, _ := locs.GetByID("sala")
	assert.Equal(t, 0, sala.Amount)
	assert.Len(t, events.events, 3)

	res, err := uc.Reconcile(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, res.Consistent())
}

// ──────────────────────────────────────────────────────────────────────────────
// History
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_OrdenYPaginacion(t *testing.T) {
	books := newFakeBookRepo(&entity.Book{ID: "b1", QuantityOnHand: 0})
	events := newFakeEventRepo()
	uc := newLedgerUC(books, newFakeLocationRepo(), events)
	ctx := context.Background()

	// Tres eventos el mismo día y uno posterior
	for i := 0; i < 3; i++ {
		_, err := uc.AppendEvent(ctx, ledger.AppendEventInput{
			BookID: "b1", Kind: entity.KindReceipt, Delta: 1 + i, Date: day(10),
		})
		require.NoError(t, err)
	}
	_, err := uc.AppendEvent(ctx, ledger.AppendEventInput{
		BookID: "b1", Kind: entity.KindWriteOff, Delta: -1, Date: day(11),
	})
	require.NoError(t, err)

	all, err := uc.History(ctx, "b1", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)

	// Más recientes primero; mismo día desempata por orden de inserción
	assert.Equal(t, entity.KindWriteOff, all[0].Kind)
	assert.Equal(t, 3, all[1].Delta)
	assert.Equal(t, 2, all[2].Delta)
	assert.Equal(t, 1, all[3].Delta)

	// Ventanas consecutivas sin huecos ni duplicados
	first, err := uc.History(ctx, "b1", 2, 0)
	require.NoError(t, err)
	second, err := uc.History(ctx, "b1", 2, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	seen := map[string]bool{}
	for _, e := range append(first, second...) {
		assert.False(t, seen[e.ID], "evento duplicado entre ventanas")
		seen[e.ID] = true
	}
	assert.Len(t, seen, 4)
}

func TestHistory_LibroInexistente(t *testing.T) {
	uc := newLedgerUC(newFakeBookRepo(), newFakeLocationRepo(), newFakeEventRepo())
	_, err := uc.History(context.Background(), "nope", 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
