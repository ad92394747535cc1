package reminder

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/zenstudent/backend/internal/model/profile"
	"github.com/zenstudent/backend/internal/service/notify"
)

// Profiles exposes the current session profile to the scheduler.
type Profiles interface {
	Current() profile.Profile
}

// Scheduler nudges the user for a daily mood check-in at their configured
// wake time. Quiet mode suppresses the nudge at fire time, not at schedule
// time, so toggling it does not require a reschedule.
type Scheduler struct {
	profiles   Profiles
	dispatcher notify.Dispatcher

	mu    sync.Mutex
	cron  *cron.Cron
	entry cron.EntryID
}

func NewScheduler(profiles Profiles, dispatcher notify.Dispatcher) *Scheduler {
	return &Scheduler{profiles: profiles, dispatcher: dispatcher}
}

// Start schedules the daily check-in from the profile wake time and runs the
// cron loop. Restarting replaces the previous schedule.
func (s *Scheduler) Start() error {
	spec, err := cronSpec(s.profiles.Current().WakeTime)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = cron.New()

	s.entry, err = s.cron.AddFunc(spec, s.fire)
	if err != nil {
		return fmt.Errorf("failed to schedule check-in: %w", err)
	}
	s.cron.Start()

	log.Printf("[reminder] daily check-in scheduled at %q", spec)
	return nil
}

// Reschedule rebuilds the schedule after a profile edit.
func (s *Scheduler) Reschedule() error {
	return s.Start()
}

// Stop halts the cron loop. Safe to call when never started.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

func (s *Scheduler) fire() {
	p := s.profiles.Current()
	if p.QuietMode {
		log.Printf("[reminder] quiet mode on, skipping check-in")
		return
	}

	message := "Time for your daily check-in: how are you feeling today?"
	if strings.EqualFold(p.Language, "ru") {
		message = "Время ежедневной отметки: как ты себя сейчас чувствуешь?"
	}

	s.dispatcher.Dispatch(context.Background(), notify.Payload{
		RecipientName: "you",
		Message:       message,
	})
}

// cronSpec converts an "HH:MM" wake time into a standard 5-field cron
// expression firing daily at that time.
func cronSpec(wakeTime string) (string, error) {
	wakeTime = strings.TrimSpace(wakeTime)
	if wakeTime == "" {
		wakeTime = "09:00"
	}

	var h, m int
	if _, err := fmt.Sscanf(wakeTime, "%02d:%02d", &h, &m); err != nil {
		return "", fmt.Errorf("invalid wake time %q: %w", wakeTime, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return "", fmt.Errorf("invalid wake time %q", wakeTime)
	}
	return fmt.Sprintf("%d %d * * *", m, h), nil
}
