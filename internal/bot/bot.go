package bot

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/scheduler"
	"github.com/example/phrasebot/internal/trainer"
	"github.com/example/phrasebot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in an inline menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram bot application
type Bot struct {
	api              *tgbotapi.BotAPI
	token            string
	config           *DrillConfig
	rng              *rand.Rand
	userRepo         *database.UserRepository
	sentenceRepo     *database.SentenceRepository
	progressRepo     *database.ProgressRepository
	historyRepo      *database.HistoryRepository
	sessions         map[int64]*trainer.Session
	adminUserIDs     map[int64]bool
	scheduler        *scheduler.Scheduler
	schedulerEnabled bool
}

// New creates a new bot instance
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	config := ConfigFromEnv()

	bot := &Bot{
		token:            token,
		config:           config,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
		userRepo:         database.NewUserRepository(),
		sentenceRepo:     database.NewSentenceRepository(),
		progressRepo:     database.NewProgressRepository(),
		historyRepo:      database.NewHistoryRepository(config.HistoryLimit),
		sessions:         make(map[int64]*trainer.Session),
		adminUserIDs:     make(map[int64]bool),
		schedulerEnabled: os.Getenv("ENABLE_SCHEDULER") != "false",
	}

	adminIDs := os.Getenv("ADMIN_USER_IDS")
	if adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				log.Printf("Warning: Invalid admin user ID: %s", idStr)
				continue
			}
			bot.adminUserIDs[id] = true
		}
	}

	return bot, nil
}

// Start initializes the Telegram API client and processes updates until the
// context is canceled. Updates are handled sequentially: every session
// mutates its own progress store, and a single consumer keeps that access
// single-threaded.
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}
	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	if b.schedulerEnabled {
		b.scheduler = scheduler.New(b)
		b.scheduler.Start()
		log.Println("Reminder scheduler started")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	log.Println("Bot stopped")
}

// SendReminders implements the scheduler.Notifier interface
func (b *Bot) SendReminders(userID int64, dueCount int) error {
	// For private chats the chat ID equals the user ID
	text := fmt.Sprintf("You have %d sentences due for review! Send /train to start.", dueCount)
	if dueCount == 1 {
		text = "You have 1 sentence due for review! Send /train to start."
	}
	msg := tgbotapi.NewMessage(userID, text)
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending reminder to user %d: %v", userID, err)
	}
	return err
}

// isAdmin checks if a user is an admin
func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserIDs[userID]
}

// handleUpdate dispatches one incoming Telegram update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			log.Printf("Error handling callback: %v", err)
		}
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if update.Message.IsCommand() {
		if err := b.handleCommand(ctx, update.Message); err != nil {
			log.Printf("Error handling command /%s: %v", update.Message.Command(), err)
		}
		return
	}

	// Plain text while a sentence is presented is treated as an answer
	if err := b.handleAnswer(ctx, update.Message); err != nil {
		log.Printf("Error handling answer: %v", err)
	}
}

// session returns the user's review session, building it on first use. The
// sentence set is fixed for the lifetime of the session.
func (b *Bot) session(ctx context.Context, user *models.User) (*trainer.Session, error) {
	if session, ok := b.sessions[user.ID]; ok {
		return session, nil
	}

	sentences, err := b.sentenceRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentences: %w", err)
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences available")
	}

	session := trainer.NewSession(ctx, user.ID, user.Level, sentences, b.progressRepo, b.historyRepo, trainer.Options{
		Matcher:      b.config.MatcherConfig(),
		HistoryLimit: b.config.HistoryLimit,
		Rand:         b.rng,
	})
	b.sessions[user.ID] = session
	return session, nil
}

// ensureUser loads the user record, creating it on first contact
func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*models.User, error) {
	user, err := b.userRepo.GetByTelegramID(ctx, from.ID)
	if err == nil {
		return user, nil
	}

	newUser := &models.User{
		ID:                  from.ID,
		Username:            from.UserName,
		FirstName:           from.FirstName,
		LastName:            from.LastName,
		Level:               models.LevelA1,
		NotificationEnabled: true,
		NotificationHour:    9,
		SentencesPerDay:     b.config.DefaultSentencesPerDay,
		IsAdmin:             b.isAdmin(from.ID),
	}
	if err := b.userRepo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return newUser, nil
}

// sendText sends a plain text message to a chat
func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}
