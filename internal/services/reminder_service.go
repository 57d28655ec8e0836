package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/justsurfingit/job-application-tracker/internal/models"
)

// Mailer delivers a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type ReminderRepository interface {
	ListDueFollowUps(ctx context.Context, day time.Time) ([]models.Application, error)
	RecordReminder(ctx context.Context, entry *models.ReminderLog) error
}

// ReminderService emails users about applications whose follow-up date has
// arrived. Each (application, follow-up date) is reminded at most once.
type ReminderService struct {
	Apps     ReminderRepository
	Users    UserRepository
	Mailer   Mailer
	Interval time.Duration

	now func() time.Time
}

func NewReminderService(apps ReminderRepository, users UserRepository, mailer Mailer, interval time.Duration) *ReminderService {
	return &ReminderService{
		Apps:     apps,
		Users:    users,
		Mailer:   mailer,
		Interval: interval,
		now:      time.Now,
	}
}

// StartWatcher runs a sync immediately and then every Interval until ctx is
// cancelled.
func (s *ReminderService) StartWatcher(ctx context.Context) {
	if s.Mailer == nil {
		slog.Warn("Follow-up reminders disabled (no mailer configured)")
		return
	}
	if s.Interval <= 0 {
		s.Interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			s.runLogged(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *ReminderService) runLogged(ctx context.Context) {
	// Bound each cycle so a stuck mail call cannot pile up cycles.
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	sent, err := s.RunOnce(ctx)
	if err != nil {
		slog.Error("Reminder cycle failed", "err", err, "sent", sent)
		return
	}
	slog.Info("Reminder cycle finished", "sent", sent)
}

// RunOnce sends every due reminder and returns how many were sent. A failure
// for one application is logged and does not stop the others.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	due, err := s.Apps.ListDueFollowUps(ctx, today)
	if err != nil {
		return 0, err
	}

	users := map[string]*models.User{}
	sent := 0
	for i := range due {
		app := &due[i]

		user, ok := users[app.UserID]
		if !ok {
			user, err = s.Users.GetByID(ctx, app.UserID)
			if err != nil {
				slog.Warn("Skipping reminder, owner lookup failed", "application", app.ID, "err", err)
				continue
			}
			users[app.UserID] = user
		}

		if wantsReminder(user.EmailPreferences.Data(), app) {
			subject, body := reminderMessage(user, app)
			if err := s.Mailer.Send(ctx, user.Email, subject, body); err != nil {
				slog.Error("Sending reminder failed", "application", app.ID, "err", err)
				continue
			}
			sent++
		}

		// Opted-out reminders are logged too so they are not reconsidered
		// every cycle.
		err := s.Apps.RecordReminder(ctx, &models.ReminderLog{
			ApplicationID: app.ID,
			FollowUpDate:  *app.FollowUpDate,
			UserID:        app.UserID,
		})
		if err != nil {
			return sent, err
		}
	}
	return sent, nil
}

func wantsReminder(prefs models.EmailPreferences, app *models.Application) bool {
	if isInterviewStage(app.Status) {
		return prefs.InterviewReminders
	}
	return prefs.ApplicationUpdates
}

func isInterviewStage(status string) bool {
	return strings.Contains(strings.ToLower(status), strings.ToLower(models.StatusInterview))
}

func reminderMessage(user *models.User, app *models.Application) (string, string) {
	subject := fmt.Sprintf("Follow up on your %s application at %s", app.Position, app.Company)

	var b strings.Builder
	name := user.Name
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "You planned to follow up on your application for %s at %s on %s.\n",
		app.Position, app.Company, time.Time(*app.FollowUpDate).Format("January 2, 2006"))
	fmt.Fprintf(&b, "Current status: %s (applied %s).\n",
		app.Status, time.Time(app.AppliedDate).Format("January 2, 2006"))
	if app.Notes != nil && *app.Notes != "" {
		fmt.Fprintf(&b, "\nYour notes:\n%s\n", *app.Notes)
	}
	return subject, b.String()
}
