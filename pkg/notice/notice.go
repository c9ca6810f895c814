// Package notice carries short user-visible messages about loads and
// saves. Front ends decide how to show them; a notice expires after its
// TTL or when the user dismisses it.
package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notice.
type Level int

const (
	Success Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "success"
}

// Display durations.
const (
	SuccessTTL = 3 * time.Second
	ErrorTTL   = 5 * time.Second
)

// SaveSucceeded is the message for a successful geometry write of
// subject, such as "Room 1.01".
func SaveSucceeded(subject string) string { return subject + " updated successfully" }

// SaveFailed is the message for a failed geometry write of subject.
func SaveFailed(subject string) string { return subject + ": update failed!" }

// Notice is one message.
type Notice struct {
	ID      string
	Level   Level
	Message string
	Created time.Time
	TTL     time.Duration
}

// Expired reports whether n should no longer be shown at now.
func (n Notice) Expired(now time.Time) bool {
	return now.Sub(n.Created) >= n.TTL
}

// New builds a notice with the TTL of its level.
func New(level Level, message string) Notice {
	ttl := SuccessTTL
	if level == Error {
		ttl = ErrorTTL
	}
	return Notice{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		Created: time.Now(),
		TTL:     ttl,
	}
}

// Notifier receives notices.
type Notifier interface {
	Notify(n Notice)
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notice) {}

// Recorder keeps notices until they expire or are dismissed. It is safe
// for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Active returns the notices that have not expired, oldest first.
func (r *Recorder) Active() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	kept := r.notices[:0]
	for _, n := range r.notices {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	r.notices = kept
	return append([]Notice(nil), kept...)
}

// All returns every recorded notice, expired or not, that has not been
// dismissed.
func (r *Recorder) All() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Dismiss removes the notice with id. It reports whether one was found.
func (r *Recorder) Dismiss(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notices {
		if n.ID == id {
			r.notices = append(r.notices[:i], r.notices[i+1:]...)
			return true
		}
	}
	return false
}
