package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/syncwatch/internal/domain"
)

const defaultCapacity = 100

// Store keeps the most recent notifications in a fixed-size ring.
type Store struct {
	mu     sync.RWMutex
	buf    []domain.Notification
	next   int
	full   bool
	lastID int64
}

func New(capacity int) *Store {
	if capacity < 1 {
		capacity = defaultCapacity
	}
	return &Store{buf: make([]domain.Notification, capacity)}
}

func (m *Store) Append(ctx context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID++
	n.ID = m.lastID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	m.buf[m.next] = *n
	m.next = (m.next + 1) % len(m.buf)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent returns up to limit notifications, newest first. limit <= 0 means all.
func (m *Store) Recent(ctx context.Context, limit int) ([]domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := m.next
	if m.full {
		size = len(m.buf)
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]domain.Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + len(m.buf)) % len(m.buf)
		out = append(out, m.buf[idx])
	}
	return out, nil
}
