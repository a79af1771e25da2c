package dhm

import (
	"context"
	"time"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
)

const (
	// validationInterval is how often a handle is revalidated: at most
	// once per 5 minutes.
	validationInterval = 5 * time.Minute
	// validationBudget is the time budget for the RETURN-1 health check.
	validationBudget = 1 * time.Second
	// expiryAge is how long a handle may live before the next acquire
	// forces a close+reopen.
	expiryAge = 30 * time.Minute
)

// Handle is a live, health-validated connection to one project's embedded
// graph database, plus the bookkeeping the DHM needs to decide when to
// revalidate or expire it.
type Handle struct {
	Engine *engine.Engine
	Path   string

	createdAt       time.Time
	lastValidatedAt time.Time
	valid           bool
}

// Expired reports whether this handle has outlived expiryAge and must be
// reset by the next Acquire for its path.
func (h *Handle) Expired(now time.Time) bool {
	return now.Sub(h.createdAt) > expiryAge
}

// EnsureValid revalidates the handle with a 1s-budget ping if it hasn't been
// validated in the last 5 minutes (or has never been validated).
func (h *Handle) EnsureValid(ctx context.Context) error {
	now := time.Now()
	if h.valid && now.Sub(h.lastValidatedAt) < validationInterval {
		return nil
	}
	if err := h.Engine.Ping(ctx, validationBudget); err != nil {
		h.valid = false
		return timeoutError(err)
	}
	h.valid = true
	h.lastValidatedAt = now
	return nil
}

// Close releases the underlying engine connection.
func (h *Handle) Close() error {
	return h.Engine.Close()
}
