package shutdown

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// GracePeriod bounds how long in-flight requests get once shutdown starts.
const GracePeriod = 10 * time.Second

func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Drain returns a context for cleanup work. It is detached from any cancelled
// parent and expires after GracePeriod.
func Drain() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), GracePeriod)
}
