package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/biblioteca-api/internal/application/auth"
	"github.com/jhoicas/biblioteca-api/internal/application/ledger"
	"github.com/jhoicas/biblioteca-api/internal/application/loan"
	"github.com/jhoicas/biblioteca-api/internal/application/usecase"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BookUC     *usecase.BookUseCase
	LocationUC *usecase.LocationUseCase
	ReaderUC   *usecase.ReaderUseCase
	LedgerUC   *ledger.UseCase
	LoanUC     *loan.UseCase
	ReportGen  loan.ReportGenerator
	AuthUC     *auth.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(entity.RoleAdmin, entity.RoleBibliotecario)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Catálogo de libros (protegido) + stock/ledger por libro
	books := protected.Group("/books", staff)
	bookHandler := NewBookHandler(deps.BookUC)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	books.Post("/", bookHandler.Create)
	books.Get("/", bookHandler.List)
	books.Get("/:id", bookHandler.GetByID)
	books.Put("/:id", bookHandler.Update)
	books.Delete("/:id", adminOnly, bookHandler.Delete)
	books.Get("/:id/stock", ledgerHandler.GetStock)
	books.Get("/:id/stock/reconcile", ledgerHandler.Reconcile)
	books.Get("/:id/ledger", ledgerHandler.History)

	// Ledger de stock (protegido; eliminación solo admin)
	ledgerGroup := protected.Group("/ledger", staff)
	ledgerGroup.Post("/events", ledgerHandler.AppendEvent)
	ledgerGroup.Delete("/events/:id", adminOnly, ledgerHandler.DeleteEvent)

	// Ubicaciones (protegido)
	locations := protected.Group("/locations", staff)
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Delete("/:id", adminOnly, locationHandler.Delete)

	// Lectores y carnés (protegido)
	readers := protected.Group("/readers", staff)
	readerHandler := NewReaderHandler(deps.ReaderUC)
	readers.Post("/", readerHandler.Create)
	readers.Get("/", readerHandler.List)
	readers.Get("/:id", readerHandler.GetByID)
	readers.Delete("/:id", adminOnly, readerHandler.Delete)
	readers.Post("/:id/tickets", readerHandler.CreateTicket)
	readers.Get("/:id/tickets", readerHandler.ListTickets)

	// Préstamos (protegido)
	loans := protected.Group("/loans", staff)
	loanHandler := NewLoanHandler(deps.LoanUC, deps.ReportGen)
	loans.Post("/", loanHandler.Create)
	loans.Get("/", loanHandler.ListOpen)
	loans.Delete("/closed", adminOnly, loanHandler.DeleteClosed)
	loans.Get("/:id", loanHandler.Get)
	loans.Post("/:id/close", loanHandler.Close)
	loans.Post("/:id/lost", loanHandler.MarkLost)
	loans.Delete("/:id", adminOnly, loanHandler.Delete)

	// Deudas por carné y reportes (protegido)
	protected.Get("/tickets/:ticketId/loans", staff, loanHandler.ListByReader)
	protected.Get("/reports/overdue", staff, loanHandler.OverdueReport)
}
