package services

import (
	"context"
	"io"

	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/ws"
)

// Notifier pushes realtime events to a user's live sockets. Delivery is
// best effort; the return value is the number of sockets reached.
type Notifier interface {
	SendToUser(userID string, ev ws.Event) int
}

// ImageUploader stores photo binaries and returns their public location.
type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (*helpers.UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}

// Mailer sends transactional emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, code string, minutes int) error
	SendWelcome(ctx context.Context, to, name string) error
}

type nopNotifier struct{}

func (nopNotifier) SendToUser(string, ws.Event) int { return 0 }

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
