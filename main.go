package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/phrasebot/internal/bot"
	"github.com/example/phrasebot/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключаемся к базе данных
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	b, err := bot.New()
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Горутина для обработки сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Printf("Bot error: %v", err)
	}

	b.Stop()
	log.Println("Bot stopped successfully")
}
