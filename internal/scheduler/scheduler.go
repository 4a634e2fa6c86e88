package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/phrasebot/internal/database"
	"github.com/go-co-op/gocron"
)

// Default quiet-hours window for reminders
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier interface for sending reminders
type Notifier interface {
	SendReminders(userID int64, dueCount int) error
}

// Scheduler manages the periodic due-sentence reminder job
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Schedule hourly check for users who need reminders
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders finds users whose notification hour matches the
// current hour and reminds them about due sentences
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := hourFromEnv("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := hourFromEnv("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	ctx := context.Background()
	userRepo := database.NewUserRepository()
	progressRepo := database.NewProgressRepository()

	users, err := userRepo.GetUsersForNotification(ctx, currentHour)
	if err != nil {
		log.Printf("Error getting users for notification: %v", err)
		return
	}

	for _, user := range users {
		dueCount, err := progressRepo.CountDueForUser(ctx, user.ID, time.Now())
		if err != nil {
			log.Printf("Error counting due sentences for user %d: %v", user.ID, err)
			continue
		}
		if dueCount == 0 {
			continue
		}

		// Don't advertise more than the user's daily quota
		if user.SentencesPerDay > 0 && dueCount > user.SentencesPerDay {
			dueCount = user.SentencesPerDay
		}

		if err := s.notifier.SendReminders(user.ID, dueCount); err != nil {
			log.Printf("Error sending reminder to user %d: %v", user.ID, err)
		}
	}
}

// RunManualCheck forces a due check for a specific user
func (s *Scheduler) RunManualCheck(userID int64) error {
	ctx := context.Background()
	progressRepo := database.NewProgressRepository()

	dueCount, err := progressRepo.CountDueForUser(ctx, userID, time.Now())
	if err != nil {
		return err
	}
	if dueCount > 0 {
		return s.notifier.SendReminders(userID, dueCount)
	}
	return nil
}

// hourFromEnv reads an hour (0-23) from the environment with a fallback
func hourFromEnv(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
