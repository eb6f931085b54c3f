package scheduler

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

// Default reminder time, 20:00 local
const (
	DefaultReminderHour   = 20
	DefaultReminderMinute = 0
)

// ErrUnsupported is returned when no notifier is configured at all
var ErrUnsupported = errors.New("notifications are not supported in this deployment")

// Notifier delivers reminders to the user
type Notifier interface {
	// Probe is the permission-request analog; arming is refused on failure
	Probe() error
	SendReminder(incompleteTasks int) error
}

// Store is the slice of the progress store the scheduler needs
type Store interface {
	Snapshot() models.UserProgress
	SetNotificationsEnabled(enabled bool) error
}

// Scheduler is the two-state reminder machine. While armed, a gocron job
// polls once per minute and fires one reminder when the wall clock reaches
// the target time and at least one task is incomplete.
type Scheduler struct {
	store    Store
	notifier Notifier
	hour     int
	minute   int
	now      func() time.Time

	mu               sync.Mutex
	cron             *gocron.Scheduler
	lastNotifiedDate string
}

// New creates a scheduler in the Disabled state. The reminder time can be
// overridden with REMINDER_HOUR and REMINDER_MINUTE.
func New(store Store, notifier Notifier) *Scheduler {
	hour := DefaultReminderHour
	minute := DefaultReminderMinute

	if hourStr := os.Getenv("REMINDER_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			hour = h
		}
	}
	if minuteStr := os.Getenv("REMINDER_MINUTE"); minuteStr != "" {
		if m, err := strconv.Atoi(minuteStr); err == nil && m >= 0 && m <= 59 {
			minute = m
		}
	}

	return &Scheduler{
		store:    store,
		notifier: notifier,
		hour:     hour,
		minute:   minute,
		now:      time.Now,
	}
}

// Armed reports whether the minute poll is running
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Arm transitions Disabled -> Armed. It requires a configured notifier and a
// successful probe; on refusal the state stays Disabled and the opt-in flag
// is not persisted.
func (s *Scheduler) Arm() error {
	if s.notifier == nil {
		return ErrUnsupported
	}
	if err := s.notifier.Probe(); err != nil {
		return fmt.Errorf("notification permission refused: %v", err)
	}

	s.mu.Lock()
	if s.cron == nil {
		cron := gocron.NewScheduler(time.Local)
		if _, err := cron.Every(1).Minute().Do(s.check); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to schedule reminder check: %v", err)
		}
		cron.StartAsync()
		s.cron = cron
	}
	s.mu.Unlock()

	return s.store.SetNotificationsEnabled(true)
}

// Disarm transitions Armed -> Disabled. Always permitted; the poll stops
// immediately and no job is left behind.
func (s *Scheduler) Disarm() error {
	s.stop()
	return s.store.SetNotificationsEnabled(false)
}

// Stop halts the poll without touching the persisted opt-in flag; used on
// shutdown so the armed state survives a restart.
func (s *Scheduler) Stop() {
	s.stop()
}

func (s *Scheduler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// Resume re-arms on startup when the persisted flag says reminders were on.
// A failed probe flips the flag off rather than leaving a dead toggle.
func (s *Scheduler) Resume() {
	if !s.store.Snapshot().NotificationsEnabled {
		return
	}
	if err := s.Arm(); err != nil {
		log.Printf("Could not re-arm reminders: %v", err)
		if err := s.store.SetNotificationsEnabled(false); err != nil {
			log.Printf("Failed to persist reminder state: %v", err)
		}
	}
}

// check runs once per minute while armed
func (s *Scheduler) check() {
	now := s.now()
	if now.Hour() != s.hour || now.Minute() != s.minute {
		return
	}

	today := now.Format("2006-01-02")
	s.mu.Lock()
	alreadyNotified := s.lastNotifiedDate == today
	s.mu.Unlock()
	if alreadyNotified {
		return
	}

	incomplete := s.store.Snapshot().IncompleteTaskCount()
	if incomplete == 0 {
		return
	}

	if err := s.notifier.SendReminder(incomplete); err != nil {
		log.Printf("Failed to send reminder: %v", err)
		return
	}

	s.mu.Lock()
	s.lastNotifiedDate = today
	s.mu.Unlock()
}
