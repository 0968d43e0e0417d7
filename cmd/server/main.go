/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift staffing server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment
  2. Initialize SQLite store
  3. Seed the admin account (idempotent)
  4. Load the timesheet logo, if configured
  5. Configure HTTP router
  6. Start server with graceful shutdown

CONFIGURATION (environment):
  PORT              HTTP server port (default: 8080)
  DATABASE_PATH     SQLite database path (default: shifts.db)
                    Use ":memory:" for an in-memory database
  LOGO_PATH         PNG/JPEG placed on every timesheet (optional)
  ADMIN_USER_ID     Seeded admin account (default: admin)
  ADMIN_USER_NAME
  ADMIN_USER_EMAIL
  ALLOWED_ORIGINS   CORS origins; empty disables CORS

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - config/config.go: Environment binding
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kulturwerk/shift-engine/api"
	"github.com/kulturwerk/shift-engine/config"
	"github.com/kulturwerk/shift-engine/roster"
	"github.com/kulturwerk/shift-engine/store/sqlite"
)

func main() {
	cfg := config.LoadConfig()

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed the admin account so the API is usable on a fresh database.
	if cfg.AdminUserID != "" {
		admin := roster.User{
			ID:    cfg.AdminUserID,
			Name:  cfg.AdminUserName,
			Email: cfg.AdminUserEmail,
			Role:  roster.RoleAdmin,
		}
		if err := store.SaveUser(context.Background(), admin); err != nil {
			log.Fatalf("Failed to seed admin user: %v", err)
		}
	}

	// The timesheet logo is decorative; a missing file is not fatal.
	var logo []byte
	if cfg.LogoPath != "" {
		logo, err = os.ReadFile(cfg.LogoPath)
		if err != nil {
			log.Printf("Warning: failed to read logo %s: %v", cfg.LogoPath, err)
			logo = nil
		}
	}

	handler := api.NewHandler(store, logo)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Archive downloads stream; give them room.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
		log.Printf("📊 API available at http://localhost:%s/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
