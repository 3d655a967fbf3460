package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/database"
	"github.com/comfortdesignszw-mny/ecommerce-web/internal/handlers"
	"github.com/comfortdesignszw-mny/ecommerce-web/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection & Migrations ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Application Setup ---
	app := &handlers.Handlers{DB: db}

	// 2. --- Background Worker ---
	// Drain pending email notifications periodically. The same dispatch pass
	// is also reachable via POST /notifications/email for external schedulers.
	interval := time.Minute
	if raw := os.Getenv("EMAIL_DISPATCH_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			interval = parsed
		} else {
			log.Printf("WARNING: invalid EMAIL_DISPATCH_INTERVAL %q, using %s", raw, interval)
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		slog.Info("email dispatch worker started", "interval", interval.String())

		for range ticker.C {
			if _, err := app.ProcessPendingEmails(); err != nil {
				slog.Error("email dispatch pass failed", "error", err)
			}
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Comfort Designs API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
