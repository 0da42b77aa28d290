package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/biblioteca-api/internal/application/auth"
	"github.com/jhoicas/biblioteca-api/internal/application/ledger"
	"github.com/jhoicas/biblioteca-api/internal/application/loan"
	"github.com/jhoicas/biblioteca-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/biblioteca-api/internal/infrastructure/pdf"
	"github.com/jhoicas/biblioteca-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/biblioteca-api/internal/interfaces/http"
	"github.com/jhoicas/biblioteca-api/pkg/config"
	"github.com/jhoicas/biblioteca-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	bookRepo := postgres.NewBookRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	eventRepo := postgres.NewLedgerEventRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	readerRepo := postgres.NewReaderRepository(pool)
	ticketRepo := postgres.NewReaderTicketRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	bookUC := usecase.NewBookUseCase(bookRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	readerUC := usecase.NewReaderUseCase(readerRepo, ticketRepo)

	ledgerUC := ledger.NewUseCase(txRunner, eventRepo, bookRepo, locationRepo)
	loanUC := loan.NewUseCase(txRunner, loanRepo, bookRepo, ticketRepo, readerRepo, loan.PenaltyPolicy{
		RatePerDay: cfg.Penalty.RatePerDay,
		LostAmount: cfg.Penalty.LostAmount,
		DeleteLost: cfg.Penalty.DeleteLost,
	})
	reportGen := infrapdf.NewMarotoReportGenerator()

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Biblioteca API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BookUC:     bookUC,
		LocationUC: locationUC,
		ReaderUC:   readerUC,
		LedgerUC:   ledgerUC,
		LoanUC:     loanUC,
		ReportGen:  reportGen,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
