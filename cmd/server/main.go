package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio_backend/internal/api"
	"portfolio_backend/internal/app/service"
	"portfolio_backend/internal/app/worker"
	"portfolio_backend/internal/common/security"
	"portfolio_backend/internal/domain/repository"
	"portfolio_backend/internal/platform/config"
	"portfolio_backend/internal/platform/database"
	"portfolio_backend/internal/platform/mail"
	"portfolio_backend/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 2. Initialize JWT signing keys
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis (reset-mail queue)
	queue.ConnectRedis()
	defer queue.CloseRedis()

	// 5. Initialize Mailer
	mailer, err := mail.NewSMTPMailer(config.AppConfig)
	if err != nil {
		log.Fatalf("Could not configure mailer: %v", err)
	}

	// 6. Repositories & Services
	userRepo := repository.NewPgUserRepository(database.DB)
	authService := service.NewAuthService(userRepo, security.Tokens, queue.RDB, logger)

	// 7. Mail worker (background goroutine)
	mailWorker := worker.NewMailWorker(queue.RDB, mailer, logger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go mailWorker.Start(workerCtx)

	// 8. Router & HTTP Server
	router := api.NewRouter(authService, security.Tokens)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal mail worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
