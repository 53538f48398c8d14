package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a user-visible notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification is one user-visible notice. Every engine-facing failure is
// converted into one of these at the command boundary instead of escaping
// into the view layer.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// notificationLog is a bounded feed drained by the UI.
type notificationLog struct {
	mu    sync.Mutex
	limit int
	items []Notification
}

func newNotificationLog(limit int) *notificationLog {
	if limit <= 0 {
		limit = 100
	}
	return &notificationLog{limit: limit}
}

func (l *notificationLog) Add(level Level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(l.items) > l.limit {
		l.items = l.items[len(l.items)-l.limit:]
	}
}

// Drain returns all pending notifications, oldest first, and clears the feed.
func (l *notificationLog) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	return out
}
