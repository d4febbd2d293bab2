// Package notify implements the console's single-slot notification surface:
// the newest message replaces the previous one and auto-dismisses after a
// fixed interval.
package notify

import (
	"sync"
	"time"

	"admin-console/internal/util"

	"go.uber.org/zap"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier is the fire-and-forget notification contract the engines emit
// through.
type Notifier interface {
	Notify(text string, severity Severity)
}

// Message is one visible notification.
type Message struct {
	Text     string    `json:"text"`
	Severity Severity  `json:"severity"`
	ShownAt  time.Time `json:"shown_at"`
}

// Sink holds at most one visible message at a time.
type Sink struct {
	mu     sync.Mutex
	ttl    time.Duration
	seq    uint64
	now    *Message
	timer  *time.Timer
	logger *zap.Logger
}

func NewSink(ttl time.Duration) *Sink {
	return &Sink{
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// Notify replaces the visible message and restarts the dismiss timer.
func (s *Sink) Notify(text string, severity Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	seq := s.seq
	s.now = &Message{Text: text, Severity: severity, ShownAt: time.Now()}

	util.NotificationsTotal.WithLabelValues(string(severity)).Inc()
	s.logger.Info("Notification",
		zap.String("severity", string(severity)),
		zap.String("text", text))

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.ttl, func() {
		s.dismiss(seq)
	})
}

// dismiss clears the slot only when the message that armed the timer is
// still the visible one.
func (s *Sink) dismiss(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq {
		s.now = nil
	}
}

// Current returns the visible message, or nil when the slot is empty.
func (s *Sink) Current() *Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now == nil {
		return nil
	}
	msg := *s.now
	return &msg
}
