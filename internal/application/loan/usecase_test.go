package loan_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/biblioteca-api/internal/application/loan"
	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeLoanRepo struct {
	loans map[string]*entity.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: map[string]*entity.Loan{}}
}

func (r *fakeLoanRepo) Create(l *entity.Loan) error {
	cp := *l
	r.loans[l.ID] = &cp
	return nil
}
func (r *fakeLoanRepo) GetByID(id string) (*entity.Loan, error) {
	if l, ok := r.loans[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}
func (r *fakeLoanRepo) GetForUpdate(id string) (*entity.Loan, error) { return r.GetByID(id) }
func (r *fakeLoanRepo) Update(l *entity.Loan) error {
	if _, ok := r.loans[l.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *l
	r.loans[l.ID] = &cp
	return nil
}
func (r *fakeLoanRepo) ListOpen(limit, offset int) ([]*entity.Loan, error) {
	var out []*entity.Loan
	for _, l := range r.loans {
		if l.Open() {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakeLoanRepo) ListByReader(ticketID string) ([]*entity.Loan, error) {
	var out []*entity.Loan
	for _, l := range r.loans {
		if l.ReaderTicketID == ticketID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakeLoanRepo) ListOverdue(asOf time.Time) ([]*entity.Loan, error) {
	var out []*entity.Loan
	for _, l := range r.loans {
		if l.Open() && l.DueDate.Before(asOf) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakeLoanRepo) DeleteByStatus(statuses []entity.LoanStatus) (int, error) {
	n := 0
	for id, l := range r.loans {
		for _, s := range statuses {
			if l.Status == s {
				delete(r.loans, id)
				n++
				break
			}
		}
	}
	return n, nil
}
func (r *fakeLoanRepo) Delete(id string) error {
	if _, ok := r.loans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.loans, id)
	return nil
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
func (r *fakeBookRepo) GetByISBN(string) (*entity.Book, error)     { return nil, nil }
func (r *fakeBookRepo) GetForUpdate(id string) (*entity.Book, error) { return r.GetByID(id) }
func (r *fakeBookRepo) Update(b *entity.Book) error                { r.books[b.ID] = b; return nil }
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

type fakeEventRepo struct {
	events []*entity.LedgerEvent
}

func (r *fakeEventRepo) Create(e *entity.LedgerEvent) error {
	cp := *e
	r.events = append(r.events, &cp)
	return nil
}
func (r *fakeEventRepo) GetByID(string) (*entity.LedgerEvent, error) { return nil, nil }
func (r *fakeEventRepo) ListByBook(string, int, int) ([]*entity.LedgerEvent, error) {
	return nil, nil
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
func (r *fakeEventRepo) Delete(string) error { return nil }

type fakeTicketRepo struct {
	tickets map[string]*entity.ReaderTicket
}

func newFakeTicketRepo(tickets ...*entity.ReaderTicket) *fakeTicketRepo {
	m := map[string]*entity.ReaderTicket{}
	for _, t := range tickets {
		m[t.ID] = t
	}
	return &fakeTicketRepo{tickets: m}
}

func (r *fakeTicketRepo) Create(t *entity.ReaderTicket) error { r.tickets[t.ID] = t; return nil }
func (r *fakeTicketRepo) GetByID(id string) (*entity.ReaderTicket, error) {
	if t, ok := r.tickets[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}
func (r *fakeTicketRepo) ListByReader(string) ([]*entity.ReaderTicket, error) { return nil, nil }
func (r *fakeTicketRepo) List(int, int) ([]*entity.ReaderTicket, error)       { return nil, nil }
func (r *fakeTicketRepo) Delete(id string) error                              { delete(r.tickets, id); return nil }

type fakeReaderRepo struct {
	readers map[string]*entity.Reader
}

func newFakeReaderRepo(readers ...*entity.Reader) *fakeReaderRepo {
	m := map[string]*entity.Reader{}
	for _, rd := range readers {
		m[rd.ID] = rd
	}
	return &fakeReaderRepo{readers: m}
}

func (r *fakeReaderRepo) Create(rd *entity.Reader) error { r.readers[rd.ID] = rd; return nil }
func (r *fakeReaderRepo) GetByID(id string) (*entity.Reader, error) {
	if rd, ok := r.readers[id]; ok {
		cp := *rd
		return &cp, nil
	}
	return nil, nil
}
func (r *fakeReaderRepo) Update(rd *entity.Reader) error          { r.readers[rd.ID] = rd; return nil }
func (r *fakeReaderRepo) List(int, int) ([]*entity.Reader, error) { return nil, nil }
func (r *fakeReaderRepo) Delete(id string) error                  { delete(r.readers, id); return nil }

// fakeTxRunner pasa los fakes directo al callback. Las verificaciones del
// caso de uso ocurren antes de cualquier escritura.
type fakeTxRunner struct {
	loans  *fakeLoanRepo
	events *fakeEventRepo
	books  *fakeBookRepo
}

func (r *fakeTxRunner) RunLoan(_ context.Context, fn func(
	repository.LoanRepository,
	repository.LedgerEventRepository,
	repository.BookRepository,
) error) error {
	return fn(r.loans, r.events, r.books)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc      *loan.UseCase
	loans   *fakeLoanRepo
	events  *fakeEventRepo
	books   *fakeBookRepo
	tickets *fakeTicketRepo
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T, qty int, policy loan.PenaltyPolicy) *fixture {
	t.Helper()
	loans := newFakeLoanRepo()
	events := &fakeEventRepo{}
	books := newFakeBookRepo(&entity.Book{ID: "b1", Title: "El Quijote", QuantityOnHand: qty})
	tickets := newFakeTicketRepo(&entity.ReaderTicket{
		ID: "t1", ReaderID: "r1", RegistrationDate: date(2023, 1, 1),
	})
	readers := newFakeReaderRepo(&entity.Reader{ID: "r1", FullName: "Ana Pérez"})
	runner := &fakeTxRunner{loans: loans, events: events, books: books}
	uc := loan.NewUseCase(runner, loans, books, tickets, readers, policy).
		WithClock(func() time.Time { return date(2024, 1, 20) })
	return &fixture{uc: uc, loans: loans, events: events, books: books, tickets: tickets}
}

func defaultPolicy() loan.PenaltyPolicy {
	return loan.PenaltyPolicy{RatePerDay: decimal.NewFromInt(30), LostAmount: decimal.Zero}
}

func createLoan(t *testing.T, f *fixture) *entity.Loan {
	t.Helper()
	l, err := f.uc.Create(context.Background(), loan.CreateInput{
		ReaderTicketID: "t1", BookID: "b1",
		IssueDate: date(2024, 1, 1), DueDate: date(2024, 1, 10),
	})
	require.NoError(t, err)
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EmitePrestamoYDescuentaStock(t *testing.T) {
	f := newFixture(t, 2, defaultPolicy())

	l := createLoan(t, f)

	assert.Equal(t, entity.StatusOnTime, l.Status)
	assert.True(t, l.PenaltyAmount.IsZero())

	book, _ := f.books.GetByID("b1")
	assert.Equal(t, 1, book.QuantityOnHand)

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, entity.KindLoanIssue, ev.Kind)
	assert.Equal(t, -1, ev.Delta)
	assert.Equal(t, "b1", ev.BookID)
}

func TestCreate_SinStockNoDejaNada(t *testing.T) {
	f := newFixture(t, 0, defaultPolicy())

	_, err := f.uc.Create(context.Background(), loan.CreateInput{
		ReaderTicketID: "t1", BookID: "b1",
		IssueDate: date(2024, 1, 1), DueDate: date(2024, 1, 10),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo o nada: ni préstamo, ni evento, ni cambio de cantidad
	assert.Empty(t, f.loans.loans)
	assert.Empty(t, f.events.events)
	book, _ := f.books.GetByID("b1")
	assert.Equal(t, 0, book.QuantityOnHand)
}

func TestCreate_CarneVencido(t *testing.T) {
	f := newFixture(t, 5, defaultPolicy())
	end := date(2023, 12, 31)
	f.tickets.tickets["t1"].EndTime = &end

	_, err := f.uc.Create(context.Background(), loan.CreateInput{
		ReaderTicketID: "t1", BookID: "b1",
		IssueDate: date(2024, 1, 1), DueDate: date(2024, 1, 10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreate_FechasInvalidas(t *testing.T) {
	f := newFixture(t, 5, defaultPolicy())

	_, err := f.uc.Create(context.Background(), loan.CreateInput{
		ReaderTicketID: "t1", BookID: "b1",
		IssueDate: date(2024, 1, 10), DueDate: date(2024, 1, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Close
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_ATiempoSinMulta(t *testing.T) {
	f := newFixture(t, 1, defaultPolicy())
	l := createLoan(t, f)

	closed, err := f.uc.Close(context.Background(), l.ID, date(2024, 1, 8))
	require.NoError(t, err)

	assert.Equal(t, entity.StatusReturnedOnTime, closed.Status)
	assert.Equal(t, 2, closed.DaysUntilDue)
	assert.True(t, closed.PenaltyAmount.IsZero())

	book, _ := f.books.GetByID("b1")
	assert.Equal(t, 1, book.QuantityOnHand)
}

func TestClose_CincoDiasTardeCobra150(t *testing.T) {
	f := newFixture(t, 1, defaultPolicy())
	l := createLoan(t, f)

	closed, err := f.uc.Close(context.Background(), l.ID, date(2024, 1, 15))
	require.NoError(t, err)

	assert.Equal(t, entity.StatusReturnedLate, closed.Status)
	assert.Equal(t, -5, closed.DaysUntilDue)
	assert.True(t, closed.PenaltyAmount.Equal(decimal.NewFromInt(150)),
		"multa esperada 150, obtenida %s", closed.PenaltyAmount)
}

func TestClose_ReenvioNoDuplicaElRetorno(t *testing.T) {
	f := newFixture(t, 1, defaultPolicy())
	l := createLoan(t, f)

	_, err := f.uc.Close(context.Background(), l.ID, date(2024, 1, 8))
	require.NoError(t, err)

	_, err = f.uc.Close(context.Background(), l.ID, date(2024, 1, 9))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// El stock se incrementó exactamente una vez
	book, _ := f.books.GetByID("b1")
	assert.Equal(t, 1, book.QuantityOnHand)
	returns := 0
	for _, e := range f.events.events {
		if e.Kind == entity.KindLoanReturn {
			returns++
		}
	}
	assert.Equal(t, 1, returns)
}

func TestClose_CongelaElEstadoFrenteAlTiempo(t *testing.T) {
	f := newFixture(t, 1, defaultPolicy())
	l := createLoan(t, f)

	_, err := f.uc.Close(context.Background(), l.ID, date(2024, 1, 15))
	require.NoError(t, err)

	// Meses después, la lectura sigue mostrando el cierre congelado
	f.uc.WithClock(func() time.Time { return date(2024, 6, 1) })
	got, err := f.uc.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReturnedLate, got.Status)
	assert.Equal(t, -5, got.DaysUntilDue)
	assert.True(t, got.PenaltyAmount.Equal(decimal.NewFromInt(150)))
}

// ──────────────────────────────────────────────────────────────────────────────
// MarkLost
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkLost_NoDevuelveElEjemplarAlStock(t *testing.T) {
	policy := defaultPolicy()
	policy.LostAmount = decimal.NewFromInt(500)
	f := newFixture(t, 1, policy)
	l := createLoan(t, f)

	lost, err := f.uc.MarkLost(context.Background(), l.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusLost, lost.Status)
	assert.True(t, lost.PenaltyAmount.Equal(decimal.NewFromInt(500)))

	// Sin LOAN_RETURN: el stock queda descontado
	book, _ := f.books.GetByID("b1")
	assert.Equal(t, 0, book.QuantityOnHand)
	for _, e := range f.events.events {
		assert.NotEqual(t, entity.KindLoanReturn, e.Kind)
	}

	// Un préstamo perdido ya no se puede cerrar
	_, err = f.uc.Close(context.Background(), l.ID, date(2024, 2, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Derivación en lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_AbiertoVencidoSeReportaVencido(t *testing.T) {
	f := newFixture(t, 1, defaultPolicy())
	l := createLoan(t, f) // vence el 10; el reloj está en el 20

	got, err := f.uc.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOverdue, got.Status)
	assert.Equal(t, -10, got.DaysUntilDue)

	// El estado persistido no se reescribe en lecturas
	stored, _ := f.loans.GetByID(l.ID)
	assert.Equal(t, entity.StatusOnTime, stored.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteClosed_SoloLiquidados(t *testing.T) {
	f := newFixture(t, 3, defaultPolicy())
	open := createLoan(t, f)
	closed := createLoan(t, f)
	lost := createLoan(t, f)

	_, err := f.uc.Close(context.Background(), closed.ID, date(2024, 1, 8))
	require.NoError(t, err)
	_, err = f.uc.MarkLost(context.Background(), lost.ID)
	require.NoError(t, err)

	n, err := f.uc.DeleteClosed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// El abierto y el perdido sobreviven (DeleteLost deshabilitado)
	still, _ := f.loans.GetByID(open.ID)
	assert.NotNil(t, still)
	still, _ = f.loans.GetByID(lost.ID)
	assert.NotNil(t, still)
}

func TestDeleteClosed_IncluyePerdidosSiLaPoliticaLoPermite(t *testing.T) {
	policy := defaultPolicy()
	policy.DeleteLost = true
	f := newFixture(t, 2, policy)
	closed := createLoan(t, f)
	lost := createLoan(t, f)

	_, err := f.uc.Close(context.Background(), closed.ID, date(2024, 1, 8))
	require.NoError(t, err)
	_, err = f.uc.MarkLost(context.Background(), lost.ID)
	require.NoError(t, err)

	n, err := f.uc.DeleteClosed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDelete_PrestamoAbiertoSeRechaza(t *testing.T) {
	f := newFixture(t, 1, defaultPolicy())
	l := createLoan(t, f)

	err := f.uc.Delete(context.Background(), l.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.uc.Close(context.Background(), l.ID, date(2024, 1, 8))
	require.NoError(t, err)
	assert.NoError(t, f.uc.Delete(context.Background(), l.ID))
}
