package dailycache

import (
	"context"
	"time"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

// DefaultTTL keeps a day's view around long enough to cover every timezone's
// version of that date.
const DefaultTTL = 36 * time.Hour

// Cache holds the last good DayView per (device, date). Implementations must
// be safe for concurrent use. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, deviceID, date string) (*types.DayView, error)
	Set(ctx context.Context, deviceID, date string, view *types.DayView) error
	Invalidate(ctx context.Context, deviceID, date string) error
	Close() error
}

type noop struct{}

// NewNoop returns a Cache that stores nothing.
func NewNoop() Cache { return noop{} }

func (noop) Get(context.Context, string, string) (*types.DayView, error) { return nil, nil }
func (noop) Set(context.Context, string, string, *types.DayView) error   { return nil }
func (noop) Invalidate(context.Context, string, string) error            { return nil }
func (noop) Close() error                                                { return nil }
