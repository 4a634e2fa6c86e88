package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/phrasebot/internal/importer"
	"github.com/example/phrasebot/internal/spaced_repetition"
	"github.com/example/phrasebot/internal/trainer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Constants for callback data
const (
	callbackSkip = "skip_sentence"
	callbackStop = "stop_training"
	callbackNext = "next_sentence"
)

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart(ctx, message)
	case "help":
		err = b.handleHelp(message)
	case "train":
		err = b.handleTrain(ctx, message)
	case "stop":
		err = b.handleStop(message)
	case "stats":
		err = b.handleStats(ctx, message)
	case "history":
		err = b.handleHistory(ctx, message)
	case "level":
		err = b.handleLevel(ctx, message)
	case "reset":
		err = b.handleReset(ctx, message)
	case "import":
		err = b.handleImport(ctx, message)
	default:
		err = b.handleUnknownCommand(message)
	}
	return err
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	if message == nil || message.From == nil || message.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}

	user, err := b.ensureUser(ctx, message.From)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"Welcome, %s!\n\n"+
			"I show you English sentences and you translate them into Portuguese. "+
			"Answers are scored with a tolerant matcher, so small typos are fine. "+
			"Sentences you struggle with come back more often.\n\n"+
			"Your level: %s\n\n"+
			"Send /train to start reviewing, /help for all commands.",
		user.FirstName, user.Level)
	return b.sendText(message.Chat.ID, text)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	text := "Available commands:\n\n" +
		"/train - start a review session\n" +
		"/stop - end the current session\n" +
		"/stats - your progress statistics\n" +
		"/history - recent answers\n" +
		"/level - current level and window\n" +
		"/reset - wipe all progress and history\n" +
		"/help - this message"
	return b.sendText(message.Chat.ID, text)
}

// handleTrain starts (or resumes) a review session and presents the next
// sentence
func (b *Bot) handleTrain(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, message.From)
	if err != nil {
		return err
	}

	session, err := b.session(ctx, user)
	if err != nil {
		return b.sendText(message.Chat.ID, "No sentences are loaded yet. Ask an admin to /import a dataset.")
	}

	return b.presentNext(message.Chat.ID, session)
}

func (b *Bot) handleStop(message *tgbotapi.Message) error {
	delete(b.sessions, message.From.ID)
	return b.sendText(message.Chat.ID, "Session ended. Send /train to pick it up again.")
}

// presentNext asks the selector for the next sentence and shows it
func (b *Bot) presentNext(chatID int64, session *trainer.Session) error {
	sentence, err := session.Next()
	if err != nil {
		return fmt.Errorf("failed to pick next sentence: %w", err)
	}

	text := fmt.Sprintf("Translate into Portuguese:\n\n%s\n\nDue: %d of %d",
		sentence.EnglishText, session.DueCount(), session.Total())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{
			{Text: "Skip", CallbackData: callbackSkip},
			{Text: "Stop", CallbackData: callbackStop},
		},
	})
	_, err = b.api.Send(msg)
	return err
}

// handleAnswer scores plain text as a translation of the current sentence
func (b *Bot) handleAnswer(ctx context.Context, message *tgbotapi.Message) error {
	session, ok := b.sessions[message.From.ID]
	if !ok || session.Current() == nil {
		return b.sendText(message.Chat.ID, "Send /train to start reviewing.")
	}

	outcome, err := session.Answer(ctx, message.Text)
	if err != nil {
		return err
	}

	return b.sendFeedback(ctx, message.Chat.ID, message.From.ID, session, outcome)
}

// sendFeedback renders the outcome of one attempt and presents the next
// sentence
func (b *Bot) sendFeedback(ctx context.Context, chatID, userID int64, session *trainer.Session, outcome *trainer.Outcome) error {
	var text string
	switch {
	case outcome.WasSkipped:
		text = fmt.Sprintf("⏭ Skipped.\n\nExpected: %s\nNext review: %s", outcome.Expected, outcome.DueDate)
	case outcome.WasCorrect:
		text = fmt.Sprintf("✅ Correct!\n\n%s\nNext review: %s", outcome.Expected, outcome.DueDate)
	default:
		text = fmt.Sprintf("❌ Incorrect.\n\nExpected: %s\nNext review: %s", outcome.Expected, outcome.DueDate)
	}

	if outcome.LevelChanged {
		// Persist the level moved by the adaptive controller
		if err := b.userRepo.UpdateLevel(ctx, userID, outcome.Level); err != nil {
			log.Printf("Failed to store level for user %d: %v", userID, err)
		}
		text += fmt.Sprintf("\n\nYour level is now %s.", outcome.Level)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{
			{Text: "Next", CallbackData: callbackNext},
			{Text: "Stop", CallbackData: callbackStop},
		},
	})
	_, err := b.api.Send(msg)
	return err
}

// handleCallback handles inline keyboard presses
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Acknowledge the press so the button stops spinning
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Failed to acknowledge callback: %v", err)
	}

	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	switch callback.Data {
	case callbackSkip:
		session, ok := b.sessions[userID]
		if !ok || session.Current() == nil {
			return b.sendText(chatID, "Send /train to start reviewing.")
		}
		outcome, err := session.Skip(ctx)
		if err != nil {
			return err
		}
		return b.sendFeedback(ctx, chatID, userID, session, outcome)
	case callbackNext:
		session, ok := b.sessions[userID]
		if !ok {
			return b.sendText(chatID, "Send /train to start reviewing.")
		}
		return b.presentNext(chatID, session)
	case callbackStop:
		delete(b.sessions, userID)
		return b.sendText(chatID, "Session ended. Send /train to pick it up again.")
	}
	return nil
}

func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, message.From)
	if err != nil {
		return err
	}

	now := time.Now()
	stats, err := b.progressRepo.GetUserStatistics(ctx, user.ID, now)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	correct, wrong, err := b.historyRepo.TodayCounts(ctx, user.ID, now)
	if err != nil {
		return fmt.Errorf("failed to get today's counts: %w", err)
	}

	total, err := b.sentenceRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count sentences: %w", err)
	}

	text := fmt.Sprintf(
		"Your statistics:\n\n"+
			"Sentences in dataset: %d\n"+
			"Sentences started: %v\n"+
			"Due today: %v\n"+
			"Mastered: %v\n"+
			"Average ease: %.2f\n"+
			"Total lapses: %v\n\n"+
			"Today: %d correct, %d wrong\n"+
			"Level: %s",
		total,
		stats["total_sentences"],
		stats["due_today"],
		stats["mastered"],
		stats["avg_ease_factor"],
		stats["total_lapses"],
		correct, wrong,
		user.Level)
	return b.sendText(message.Chat.ID, text)
}

func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, message.From)
	if err != nil {
		return err
	}

	entries, err := b.historyRepo.Recent(ctx, user.ID, 10)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if len(entries) == 0 {
		return b.sendText(message.Chat.ID, "No attempts recorded yet. Send /train to start.")
	}

	var sb strings.Builder
	sb.WriteString("Recent attempts (newest first):\n")
	for _, entry := range entries {
		mark := "❌"
		if entry.Correct {
			mark = "✅"
		}
		if entry.Skipped {
			mark = "⏭"
		}
		fmt.Fprintf(&sb, "\n%s %s\n→ %s\n", mark, entry.EnglishText, entry.Expected)
	}
	return b.sendText(message.Chat.ID, sb.String())
}

func (b *Bot) handleLevel(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, message.From)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Your level: %s", user.Level)
	if session, ok := b.sessions[user.ID]; ok {
		attempts, correct := session.Window()
		text = fmt.Sprintf("Your level: %s\nAccuracy window: %d correct of %d attempts (window of %d)",
			session.Level(), correct, attempts, spaced_repetition.LevelWindowSize)
	}
	return b.sendText(message.Chat.ID, text)
}

// handleReset wipes all progress and history for the user
func (b *Bot) handleReset(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, message.From)
	if err != nil {
		return err
	}

	session, err := b.session(ctx, user)
	if err != nil {
		return b.sendText(message.Chat.ID, "Nothing to reset yet.")
	}
	if err := session.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	delete(b.sessions, user.ID)
	return b.sendText(message.Chat.ID, "All progress and history wiped. Send /train for a fresh start.")
}

// handleImport loads a sentence dataset from a server-side file (admin only)
func (b *Bot) handleImport(ctx context.Context, message *tgbotapi.Message) error {
	if !b.isAdmin(message.From.ID) {
		return b.sendText(message.Chat.ID, "Only admins can import datasets.")
	}

	path := strings.TrimSpace(message.CommandArguments())
	if path == "" {
		return b.sendText(message.Chat.ID, "Usage: /import <path to .xlsx, .csv or .json file>")
	}

	config := importer.DefaultImportConfig()
	config.FilePath = path

	result, err := importer.ImportSentences(ctx, config)
	if err != nil {
		return b.sendText(message.Chat.ID, fmt.Sprintf("Import failed: %v", err))
	}

	// Sessions hold the old sentence set; rebuild them lazily
	b.sessions = make(map[int64]*trainer.Session)

	text := fmt.Sprintf("Import finished: %d processed, %d created, %d updated, %d skipped",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf("\n%d rows had errors, first: %s", len(result.Errors), result.Errors[0])
	}
	return b.sendText(message.Chat.ID, text)
}

func (b *Bot) handleUnknownCommand(message *tgbotapi.Message) error {
	return b.sendText(message.Chat.ID, "Unknown command. Send /help for the list of commands.")
}
