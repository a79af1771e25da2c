// Package memsvc is the Memory Service (MS): the façade the dispatch layer
// calls into, responsible for resolving a clientProjectRoot to a live
// Repository-Layer Store via the DHM and owning process-wide shutdown.
package memsvc

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/dhm"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"go.uber.org/zap"
)

// Service is constructed once per process and shared by every session.
type Service struct {
	dhm *dhm.Manager
	log *zap.Logger
}

// New constructs a Service over an already-constructed DHM Manager.
func New(manager *dhm.Manager, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{dhm: manager, log: log}
}

// Resolve acquires (or reuses) the handle for clientProjectRoot and returns
// a Repository-Layer Store bound to it. Every tool call on that project
// root goes through this one entry point, so DHM acquisition semantics
// (singleflight init, expiry, revalidation) apply uniformly regardless of
// which tool is being dispatched.
func (s *Service) Resolve(ctx context.Context, clientProjectRoot string) (*repo.Store, error) {
	h, err := s.dhm.Acquire(ctx, clientProjectRoot)
	if err != nil {
		return nil, err
	}
	return repo.New(h), nil
}

// Shutdown releases every cached handle. Every CLI command calls it from
// its cleanup function when the command returns.
func (s *Service) Shutdown() error {
	s.log.Info("shutting down memory service")
	return s.dhm.CloseAll()
}
