package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/ai"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/chat"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/database"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/notify"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/progress"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/quiz"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/quote"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/scheduler"
	"github.com/raaj7000prajapati-crypto/jee-protocol/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	store := progress.NewStore(database.NewSnapshotRepository())
	gemini := ai.NewFromEnv()

	quotes := quote.New(store, gemini)
	quizService := quiz.NewService(gemini, store)
	mentor := chat.NewMentor(gemini)

	notifier, err := notify.NewTelegramFromEnv()
	if err != nil {
		log.Printf("Telegram notifier unavailable, reminders disabled: %v", err)
		notifier = nil
	}
	// Keep the interface value nil when no notifier is configured
	var reminderNotifier scheduler.Notifier
	if notifier != nil {
		reminderNotifier = notifier
	}
	reminders := scheduler.New(store, reminderNotifier)
	reminders.Resume()
	defer reminders.Stop()

	// Fetch today's quote in the background on startup
	go quotes.RefreshIfStale(ctx)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: server.New(store, quizService, mentor, quotes, reminders).Router(),
	}

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}

		close(done)
	}()

	log.Printf("JEE Protocol server listening on %s. Press Ctrl+C to stop.", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	<-done
	log.Println("Server stopped successfully")
}
