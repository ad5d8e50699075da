package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ricemill/pos-backend/internal/config"
	"github.com/ricemill/pos-backend/internal/database"
	"github.com/ricemill/pos-backend/internal/modules/auth"
	"github.com/ricemill/pos-backend/internal/modules/backup"
	"github.com/ricemill/pos-backend/internal/modules/cashbook"
	"github.com/ricemill/pos-backend/internal/modules/catalog"
	"github.com/ricemill/pos-backend/internal/modules/inventory"
	"github.com/ricemill/pos-backend/internal/modules/reports"
	"github.com/ricemill/pos-backend/internal/modules/sales"
	"github.com/ricemill/pos-backend/internal/modules/user"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := config.NewLogger()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}
	logger.Info("database ready")

	gate := database.NewGate()

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)

	authService := auth.NewService(userRepo, []byte(cfg.JWTSecret))
	auth.NewHandler(authService).RegisterRoutes(router)

	authn := auth.Middleware(authService)
	admin := auth.RequireRole(string(user.RoleAdmin))

	user.NewHandler(userService).RegisterRoutes(router, authn, admin)

	// ── Catalog & Inventory ─────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router, authn, admin)

	inventoryRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(inventoryRepo, logger)
	inventory.NewHandler(inventoryService).RegisterRoutes(router, authn, admin)

	// ── Sales ───────────────────────────────────────────────
	salesRepo := sales.NewPostgresRepository(db, inventoryRepo)
	salesEngine := sales.NewEngine(salesRepo, cfg.Calendar, gate, logger)
	sales.NewHandler(salesEngine).RegisterRoutes(router, authn)

	// ── Cash Book & Reports ─────────────────────────────────
	cashbookRepo := cashbook.NewPostgresRepository(db)
	cashbookService := cashbook.NewService(cashbookRepo, cfg.Calendar, logger)
	cashbook.NewHandler(cashbookService).RegisterRoutes(router, authn, admin)

	reportRepo := reports.NewPostgresRepository(db)
	reportService := reports.NewService(reportRepo, cfg.Calendar)
	reports.NewHandler(reportService).RegisterRoutes(router, authn)

	// ── Backups ─────────────────────────────────────────────
	backupService := backup.NewService(cfg.DatabaseURL, cfg.BackupDir, gate, logger)
	backup.NewHandler(backupService, cfg.BackupKeep).RegisterRoutes(router, authn, admin)

	logger.WithField("port", cfg.Port).Info("server listening")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
