package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/storetest"
	"github.com/joshua-takyi/rendez/internal/ws"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type sentEvent struct {
	UserID string
	Event  ws.Event
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) SendToUser(userID string, ev ws.Event) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{UserID: userID, Event: ev})
	return 1
}

func (n *recordingNotifier) ofType(typ string) []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEvent
	for _, e := range n.events {
		if e.Event.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type fakeUploader struct {
	uploaded []string
	deleted  []string
	failNext bool
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, folder string) (*helpers.UploadedImage, error) {
	if f.failNext {
		f.failNext = false
		return nil, errors.New("upload failed")
	}
	if _, err := io.ReadAll(file); err != nil {
		return nil, err
	}
	id := folder + "/img" + string(rune('a'+len(f.uploaded)))
	f.uploaded = append(f.uploaded, id)
	return &helpers.UploadedImage{URL: "https://res.cloudinary.com/demo/" + id + ".jpg", PublicID: id}, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

type fakeMailer struct {
	resetTo   string
	resetCode string
	welcomed  []string
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, _ string, code string, _ int) error {
	m.resetTo = to
	m.resetCode = code
	return nil
}

func (m *fakeMailer) SendWelcome(_ context.Context, to, _ string) error {
	m.welcomed = append(m.welcomed, to)
	return nil
}

func newTestIssuer() *helpers.TokenIssuer {
	return helpers.NewTokenIssuer(testSecret, "test", 30*time.Minute)
}

func seedUser(t *testing.T, store *storetest.MemoryStore, id, name string, age int, gender string) *models.User {
	t.Helper()
	u := &models.User{
		ID:        id,
		Name:      name,
		Email:     id + "@example.com",
		Age:       age,
		Gender:    gender,
		CreatedAt: time.Now().UTC(),
	}
	_, err := store.CreateUser(context.Background(), u)
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }
