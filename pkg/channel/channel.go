package channel

import (
	"context"
	"errors"
	"time"

	"hooknotify/pkg/event"
)

// TimestampLayout renders times as 2024/1/5 09:03:07.
const TimestampLayout = "2006/1/2 15:04:05"

// ErrNotConfigured marks a channel whose credentials are absent. Callers treat
// it as a skip, not a failure.
var ErrNotConfigured = errors.New("channel not configured")

// Delivery summarizes the attempts made for one event.
type Delivery struct {
	// Attempts counts POSTs issued, including a degraded retry.
	Attempts int
	// Degraded is set when the plain-text retry delivered the message.
	Degraded bool
	// PrimaryErr holds the first attempt's failure when a retry followed it.
	PrimaryErr error
}

// Notifier formats one event for an external destination and delivers it.
type Notifier interface {
	Name() string
	Notify(context.Context, event.Record) (Delivery, error)
}

// Timestamp formats now for display in outbound messages.
func Timestamp(now time.Time) string {
	return now.Format(TimestampLayout)
}

// WithTimeout bounds ctx by d; a zero d leaves ctx unbounded.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}
