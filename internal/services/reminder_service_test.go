package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/repository/memrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newReminderFixture(t *testing.T, today string) (*ReminderService, *memrepo.Store, *ApplicationService, *fakeMailer) {
	t.Helper()
	store := memrepo.New()
	mailer := &fakeMailer{}
	svc := NewReminderService(store.Applications, store.Users, mailer, time.Hour)
	now, err := time.Parse(time.DateOnly, today)
	require.NoError(t, err)
	svc.now = func() time.Time { return now.Add(9 * time.Hour) }
	return svc, store, NewApplicationService(store.Applications, &fakeUploader{}), mailer
}

func withFollowUp(company, status, followUp string) *dtos.ApplicationCreateForm {
	f := createForm(company, status, "2024-03-01")
	f.FollowUpDate = followUp
	return f
}

func TestReminderService_RunOnce(t *testing.T) {
	ctx := context.Background()
	svc, store, apps, mailer := newReminderFixture(t, "2024-03-15")
	ada := createUser(t, store, "ada@example.com")

	for _, f := range []*dtos.ApplicationCreateForm{
		withFollowUp("Acme", models.StatusApplied, "2024-03-15"),
		withFollowUp("Globex", models.StatusApplied, "2024-03-10"),
		withFollowUp("Initech", models.StatusApplied, "2024-03-16"),
		createForm("Umbrella", models.StatusApplied, "2024-03-01"),
	} {
		_, err := apps.Create(ctx, ada, f, nil)
		require.NoError(t, err)
	}

	sent, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "ada@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].subject, "Globex")
	assert.Contains(t, mailer.sent[1].subject, "Acme")
	assert.Contains(t, mailer.sent[1].body, "March 15, 2024")

	sent, err = svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent, "each follow-up date is reminded once")

	t.Run("moving the follow-up date re-arms the reminder", func(t *testing.T) {
		list, err := apps.List(ctx, ada, dtos.ApplicationListQuery{Company: "Acme"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		_, err = apps.Update(ctx, ada, list[0].ID, &dtos.ApplicationUpdateForm{FollowUpDate: "2024-03-14"}, nil)
		require.NoError(t, err)

		sent, err := svc.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})
}

func TestReminderService_Preferences(t *testing.T) {
	ctx := context.Background()
	svc, store, apps, mailer := newReminderFixture(t, "2024-03-15")

	ada := createUser(t, store, "ada@example.com")
	require.NoError(t, store.Users.UpdateEmailPreferences(ctx, ada.ID, models.EmailPreferences{
		ApplicationUpdates: false,
		InterviewReminders: true,
	}))

	_, err := apps.Create(ctx, ada, withFollowUp("Acme", models.StatusApplied, "2024-03-15"), nil)
	require.NoError(t, err)
	_, err = apps.Create(ctx, ada, withFollowUp("Globex", models.StatusInterview, "2024-03-15"), nil)
	require.NoError(t, err)

	sent, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].subject, "Globex")

	// Opted-out reminders are not retried once the preference flips back.
	require.NoError(t, store.Users.UpdateEmailPreferences(ctx, ada.ID, models.DefaultEmailPreferences()))
	sent, err = svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminderService_SendFailureIsRetried(t *testing.T) {
	ctx := context.Background()
	svc, store, apps, mailer := newReminderFixture(t, "2024-03-15")
	ada := createUser(t, store, "ada@example.com")
	_, err := apps.Create(ctx, ada, withFollowUp("Acme", models.StatusApplied, "2024-03-15"), nil)
	require.NoError(t, err)

	mailer.err = errors.New("gmail unavailable")
	sent, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	mailer.err = nil
	sent, err = svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, mailer.count())
}

func TestWantsReminder(t *testing.T) {
	prefs := models.EmailPreferences{ApplicationUpdates: true, InterviewReminders: false}
	followUp := datatypes.Date(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	assert.True(t, wantsReminder(prefs, &models.Application{Status: models.StatusApplied, FollowUpDate: &followUp}))
	assert.False(t, wantsReminder(prefs, &models.Application{Status: "Technical Interview", FollowUpDate: &followUp}))
}

func TestReminderService_StartWatcher(t *testing.T) {
	svc, store, apps, mailer := newReminderFixture(t, "2024-03-15")
	ada := createUser(t, store, "ada@example.com")
	_, err := apps.Create(context.Background(), ada, withFollowUp("Acme", models.StatusApplied, "2024-03-15"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartWatcher(ctx)

	assert.Eventually(t, func() bool { return mailer.count() == 1 }, time.Second, 10*time.Millisecond)
}
