// Package memrepo is an in-memory implementation of the repositories with the
// same ordering, filtering, upsert and cascade behavior as the Postgres ones.
// It backs the service and handler tests.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/repository"
	"gorm.io/datatypes"
)

type data struct {
	mu        sync.Mutex
	users     map[string]models.User
	apps      map[string]models.Application
	problems  map[string]models.LeetCodeProblem
	progress  map[string]models.UserProblemProgress // keyed by userID + "/" + problemID
	reminders map[string]models.ReminderLog         // keyed by applicationID + "/" + date
}

type Store struct {
	Users        *UserRepo
	Applications *ApplicationRepo
	Problems     *ProblemRepo

	d *data
}

func New() *Store {
	d := &data{
		users:     map[string]models.User{},
		apps:      map[string]models.Application{},
		problems:  map[string]models.LeetCodeProblem{},
		progress:  map[string]models.UserProblemProgress{},
		reminders: map[string]models.ReminderLog{},
	}
	return &Store{
		Users:        &UserRepo{d: d},
		Applications: &ApplicationRepo{d: d},
		Problems:     &ProblemRepo{d: d},
		d:            d,
	}
}

// Counts reports how many applications and progress rows a user owns.
func (s *Store) Counts(userID string) (apps, progress int) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, a := range s.d.apps {
		if a.UserID == userID {
			apps++
		}
	}
	for _, p := range s.d.progress {
		if p.UserID == userID {
			progress++
		}
	}
	return apps, progress
}

func progressKey(userID, problemID string) string {
	return userID + "/" + problemID
}

func reminderKey(appID string, d datatypes.Date) string {
	return appID + "/" + time.Time(d).Format(time.DateOnly)
}

type UserRepo struct {
	d *data
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	if user.ID == "" {
		user.ID = models.NewID()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.d.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[id]
	if !ok {
		return nil, fmt.Errorf("get user %s: %w", id, repository.ErrRecordNotFound)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", repository.ErrRecordNotFound)
}

func (r *UserRepo) UpdateName(_ context.Context, id, name string) error {
	return r.update(id, func(u *models.User) { u.Name = name })
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return r.update(id, func(u *models.User) { u.Password = hash })
}

func (r *UserRepo) UpdateImage(_ context.Context, id, url string) error {
	return r.update(id, func(u *models.User) { u.Image = url })
}

func (r *UserRepo) UpdateEmailPreferences(_ context.Context, id string, prefs models.EmailPreferences) error {
	return r.update(id, func(u *models.User) { u.EmailPreferences = datatypes.NewJSONType(prefs) })
}

func (r *UserRepo) update(id string, fn func(*models.User)) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[id]
	if !ok {
		return fmt.Errorf("update user: %w", repository.ErrRecordNotFound)
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	r.d.users[id] = u
	return nil
}

func (r *UserRepo) DeleteCascade(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.users[id]; !ok {
		return fmt.Errorf("delete user: %w", repository.ErrRecordNotFound)
	}
	for k, rl := range r.d.reminders {
		if rl.UserID == id {
			delete(r.d.reminders, k)
		}
	}
	for k, p := range r.d.progress {
		if p.UserID == id {
			delete(r.d.progress, k)
		}
	}
	for k, a := range r.d.apps {
		if a.UserID == id {
			delete(r.d.apps, k)
		}
	}
	delete(r.d.users, id)
	return nil
}

type ApplicationRepo struct {
	d *data
}

func (r *ApplicationRepo) Create(_ context.Context, app *models.Application) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if app.ID == "" {
		app.ID = models.NewID()
	}
	now := time.Now()
	app.CreatedAt, app.UpdatedAt = now, now
	r.d.apps[app.ID] = *app
	return nil
}

func (r *ApplicationRepo) List(_ context.Context, userID string, f repository.ApplicationFilter) ([]models.Application, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	company := strings.ToLower(f.Company)
	out := []models.Application{}
	for _, a := range r.d.apps {
		if a.UserID != userID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if company != "" && !strings.Contains(strings.ToLower(a.Company), company) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := time.Time(out[i].AppliedDate), time.Time(out[j].AppliedDate)
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ApplicationRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	a, ok := r.d.apps[id]
	if !ok {
		return nil, fmt.Errorf("get application %s: %w", id, repository.ErrRecordNotFound)
	}
	return &a, nil
}

func (r *ApplicationRepo) Save(_ context.Context, app *models.Application) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	app.UpdatedAt = time.Now()
	r.d.apps[app.ID] = *app
	return nil
}

func (r *ApplicationRepo) Delete(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.apps[id]; !ok {
		return fmt.Errorf("delete application %s: %w", id, repository.ErrRecordNotFound)
	}
	for k, rl := range r.d.reminders {
		if rl.ApplicationID == id {
			delete(r.d.reminders, k)
		}
	}
	delete(r.d.apps, id)
	return nil
}

func (r *ApplicationRepo) ListDueFollowUps(_ context.Context, day time.Time) ([]models.Application, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []models.Application
	for _, a := range r.d.apps {
		if a.FollowUpDate == nil || time.Time(*a.FollowUpDate).After(day) {
			continue
		}
		if _, sent := r.d.reminders[reminderKey(a.ID, *a.FollowUpDate)]; sent {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return time.Time(*out[i].FollowUpDate).Before(time.Time(*out[j].FollowUpDate))
	})
	return out, nil
}

func (r *ApplicationRepo) RecordReminder(_ context.Context, entry *models.ReminderLog) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	key := reminderKey(entry.ApplicationID, entry.FollowUpDate)
	if _, ok := r.d.reminders[key]; !ok {
		entry.CreatedAt = time.Now()
		r.d.reminders[key] = *entry
	}
	return nil
}

type ProblemRepo struct {
	d *data
}

func (r *ProblemRepo) ListWithProgress(_ context.Context, userID string) ([]models.ProblemWithProgress, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := make([]models.ProblemWithProgress, 0, len(r.d.problems))
	for _, p := range r.d.problems {
		row := models.ProblemWithProgress{LeetCodeProblem: p}
		if up, ok := r.d.progress[progressKey(userID, p.ID)]; ok {
			row.Solved, row.Bookmarked = up.Solved, up.Bookmarked
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *ProblemRepo) Exists(_ context.Context, id string) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	_, ok := r.d.problems[id]
	return ok, nil
}

func (r *ProblemRepo) UpsertProgress(_ context.Context, userID, problemID string, patch repository.ProgressPatch) (*models.UserProblemProgress, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	now := time.Now()
	key := progressKey(userID, problemID)
	row, ok := r.d.progress[key]
	if !ok {
		row = models.UserProblemProgress{
			ID:        models.NewID(),
			UserID:    userID,
			ProblemID: problemID,
			CreatedAt: now,
		}
	}
	if patch.Solved != nil {
		row.Solved = *patch.Solved
	}
	if patch.Bookmarked != nil {
		row.Bookmarked = *patch.Bookmarked
	}
	row.UpdatedAt = now
	r.d.progress[key] = row
	return &row, nil
}

func (r *ProblemRepo) SeedCatalog(_ context.Context, problems []models.LeetCodeProblem) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	titles := map[string]bool{}
	for _, p := range r.d.problems {
		titles[p.Title] = true
	}
	var inserted int64
	for _, p := range problems {
		if titles[p.Title] {
			continue
		}
		if p.ID == "" {
			p.ID = models.NewID()
		}
		titles[p.Title] = true
		r.d.problems[p.ID] = p
		inserted++
	}
	return inserted, nil
}
