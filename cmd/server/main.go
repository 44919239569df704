package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"guvenlik-backend/internal/auth"
	"guvenlik-backend/internal/cogs"
	"guvenlik-backend/internal/config"
	"guvenlik-backend/internal/dashboard"
	"guvenlik-backend/internal/database"
	"guvenlik-backend/internal/exchange"
	"guvenlik-backend/internal/expense"
	"guvenlik-backend/internal/financial"
	"guvenlik-backend/internal/httpx"
	"guvenlik-backend/internal/ledger"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/messages"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/recurring"
	"guvenlik-backend/internal/subscription"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// .env yoksa ortam değişkenleri kullanılır
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), Component: "app", Output: os.Stdout})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Konfigürasyon geçersiz", "error", err)
		os.Exit(1)
	}
	cfg.WarnDefaults(logger.Logger)

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Error("Veritabanına bağlanılamadı", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db, logger.WithComponent("database")); err != nil {
		logger.Error("Migration başarısız", "error", err)
		os.Exit(1)
	}

	// Tutarlar JSON'da sayı olarak döner
	decimal.MarshalJSONWithoutQuotes = true

	catalog := messages.New(cfg.DefaultLocale)

	// Servisler
	rates := exchange.NewRateStore(db)
	txStore := ledger.NewTransactionStore(db)
	ledgerSvc := ledger.NewService(txStore, cogs.NewDeriver(cogs.NewItemReader(db), rates), logger)
	financialSvc := financial.NewService(ledger.NewFactStore(db), txStore, subscription.NewStatsSource(db), logger)
	fetcher := exchange.NewFetcher(exchange.NewTCMBClient(cfg.TCMBURL, cfg.RateFetchTimeout), rates, logger).
		WithTimeout(2 * cfg.RateFetchTimeout)
	templates := recurring.NewTemplateStore(db)
	processor := recurring.NewProcessor(templates, ledgerSvc, logger)
	categories := expense.NewCategoryStore(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler(catalog, logger.WithComponent("http")),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpx.AccessLog(logger.WithComponent("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg.JWTSecret))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))
	protected.Use(auth.RequireRole(models.RoleAdmin, models.RoleAccountant))

	protected.Get("/auth/me", auth.MeHandler(db))

	// İşlemler (defter)
	protected.Post("/transactions/expense", ledger.CreateQuickExpenseHandler(ledgerSvc))
	protected.Post("/transactions/income", ledger.CreateQuickIncomeHandler(ledgerSvc))
	protected.Post("/transactions", ledger.CreateTransactionHandler(ledgerSvc))
	protected.Get("/transactions", ledger.ListTransactionsHandler(ledgerSvc))
	protected.Get("/transactions/:id", ledger.GetTransactionHandler(ledgerSvc))
	protected.Put("/transactions/:id", ledger.UpdateTransactionHandler(ledgerSvc))
	protected.Delete("/transactions/:id", ledger.DeleteTransactionHandler(ledgerSvc))

	// Finansal raporlar
	protected.Get("/financial/profit-loss", financial.ProfitLossHandler(financialSvc))
	protected.Get("/financial/profit-loss/by-period", financial.ProfitLossByPeriodHandler(financialSvc))
	protected.Get("/financial/profit-loss/export", financial.ExportProfitLossHandler(financialSvc, catalog))
	protected.Get("/financial/categories", financial.CategoriesHandler(financialSvc, catalog))
	protected.Get("/financial/vat", financial.VATHandler(financialSvc))
	protected.Get("/financial/vat/export", financial.ExportVATHandler(financialSvc, catalog))

	// Dashboard
	protected.Get("/dashboard/kpis", dashboard.KPIHandler(financialSvc))
	protected.Get("/dashboard/trend", dashboard.TrendHandler(financialSvc))

	// Kurlar
	protected.Get("/exchange-rates", exchange.ListRatesHandler(rates))
	protected.Get("/exchange-rates/latest", exchange.LatestRateHandler(rates))

	// Gider kategorileri & tekrarlayan işlemler
	protected.Get("/expense-categories", expense.ListExpenseCategoriesHandler(categories, catalog))
	protected.Get("/recurring-templates", recurring.ListTemplatesHandler(templates))

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler(db))

	adminRoutes.Post("/exchange-rates", exchange.CreateRateHandler(rates))
	adminRoutes.Post("/exchange-rates/fetch", exchange.FetchRateHandler(fetcher))

	adminRoutes.Post("/expense-categories", expense.CreateExpenseCategoryHandler(categories, catalog))
	adminRoutes.Put("/expense-categories/:id", expense.UpdateExpenseCategoryHandler(categories, catalog))
	adminRoutes.Delete("/expense-categories/:id", expense.DeactivateExpenseCategoryHandler(categories))

	adminRoutes.Post("/recurring-templates", recurring.CreateTemplateHandler(templates))
	adminRoutes.Post("/recurring-templates/run", recurring.RunDueHandler(processor))

	go func() {
		addr := ":" + cfg.HTTPPort
		logger.Info("Sunucu başlatılıyor", "addr", addr)
		if err := app.Listen(addr); err != nil {
			logger.Error("Sunucu durdu", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Kapatma sinyali alındı", "signal", sig.String())

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logger.Error("Sunucu düzgün kapatılamadı", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Sunucu kapatıldı")
}
