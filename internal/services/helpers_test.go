package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/repository/memrepo"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeUploader struct {
	mu      sync.Mutex
	url     string
	err     error
	folders []string
	bodies  []string
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, _ := io.ReadAll(r)
	f.folders = append(f.folders, folder)
	f.bodies = append(f.bodies, string(body))
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeUploader) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.folders)
}

var errStorageDown = errors.New("storage down")

func createUser(t *testing.T, store *memrepo.Store, email string) *models.User {
	t.Helper()
	u := &models.User{
		Name:             "Test User",
		Email:            email,
		EmailPreferences: datatypes.NewJSONType(models.DefaultEmailPreferences()),
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}
