// Package dhm implements the Database Handle Manager: the process-wide
// registry mapping a clientProjectRoot to a live, health-validated embedded
// database handle.
package dhm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// dbRelDir and dbFilename compose the path this server fixes:
	// "{clientProjectRoot}/.kuzumem/memory-bank.db".
	dbRelDir    = ".kuzumem"
	dbFilename  = "memory-bank.db"
	lockSuffix  = ".lock"
	staleLockAge = 5 * time.Minute
	schemaProbeTimeout = 5 * time.Second
	defaultQueryTimeout = 30 * time.Second
)

// Manager owns the clientProjectRoot -> Handle registry. It is constructed
// explicitly and passed into the Memory Service rather than reached through
// a package-level singleton.
type Manager struct {
	mu       sync.Mutex
	handles  map[string]*Handle
	sf       singleflight.Group
	log      *zap.Logger
	override string // DB_PATH_OVERRIDE, if set, bypasses per-project mapping
}

// New constructs a Manager. override, when non-empty, forces every handle to
// a single path — intended for test harnesses only.
func New(log *zap.Logger, override string) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		handles:  make(map[string]*Handle),
		log:      log,
		override: override,
	}
}

func (m *Manager) resolvePath(clientProjectRoot string) string {
	if m.override != "" {
		return m.override
	}
	return filepath.Join(clientProjectRoot, dbRelDir, dbFilename)
}

// Acquire returns a handle ready for queries for clientProjectRoot, creating
// and initializing it on first touch. Safe for concurrent use by many
// callers for the same or different roots.
func (m *Manager) Acquire(ctx context.Context, clientProjectRoot string) (*Handle, error) {
	path := m.resolvePath(clientProjectRoot)

	m.mu.Lock()
	if h, ok := m.handles[path]; ok {
		if !h.Expired(time.Now()) {
			m.mu.Unlock()
			if err := h.EnsureValid(ctx); err != nil {
				return nil, err
			}
			return h, nil
		}
		// Expired: drop it from the registry and fall through to reinit.
		delete(m.handles, path)
		m.mu.Unlock()
		_ = h.Close()
	} else {
		m.mu.Unlock()
	}

	v, err, _ := m.sf.Do(path, func() (any, error) {
		return m.initialize(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	h := v.(*Handle)

	m.mu.Lock()
	m.handles[path] = h
	m.mu.Unlock()
	return h, nil
}

// initialize runs the first-touch initialization protocol for path. On any failure the handle is not cached by the
// caller (Acquire only stores the value singleflight returns on success).
func (m *Manager) initialize(ctx context.Context, path string) (*Handle, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, permissionError(dir, err)
	}
	if err := probeWritable(dir); err != nil {
		return nil, permissionError(dir, err)
	}

	lockPath := path + lockSuffix
	if err := m.recoverStaleLock(lockPath); err != nil {
		return nil, err
	}

	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, lockError(lockPath, err)
	}
	if !locked {
		return nil, lockError(lockPath, errors.New("database is locked by another process"))
	}
	// The advisory lock is released once the engine itself owns the file;
	// the lock file's mtime is what staleness is judged against, not an
	// indefinitely held OS lock.
	_ = fl.Unlock()

	eng, err := engine.Open(path)
	if err != nil {
		return nil, lockError(lockPath, err)
	}

	if err := m.bootstrapSchema(ctx, eng); err != nil {
		_ = eng.Close()
		return nil, err
	}

	m.installAlgorithmExtension(eng)

	now := time.Now()
	return &Handle{
		Engine:          eng,
		Path:            path,
		createdAt:       now,
		lastValidatedAt: now,
		valid:           true,
	}, nil
}

// recoverStaleLock removes lockPath if it exists and is older than 5
// minutes; a younger lock is left for the engine to surface as contention.
func (m *Manager) recoverStaleLock(lockPath string) error {
	info, err := os.Stat(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return permissionError(lockPath, err)
	}
	if time.Since(info.ModTime()) > staleLockAge {
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return permissionError(lockPath, err)
		}
		m.log.Info("removed stale lock file",
			zap.String("path", lockPath),
			zap.Duration("age", time.Since(info.ModTime())))
	}
	return nil
}

// probeWritable verifies dir is writable by writing and deleting a probe
// file.
func probeWritable(dir string) error {
	probe := filepath.Join(dir, ".kuzumem-write-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return err
	}
	return os.Remove(probe)
}

// bootstrapSchema runs the schema-presence probe and, if the Repository
// table is absent, the idempotent DDL script. A probe timeout is treated as
// possible lock contention.
func (m *Manager) bootstrapSchema(ctx context.Context, eng *engine.Engine) error {
	rows, err := eng.ExecuteQuery(ctx, engine.RepositoryTableProbe, nil, schemaProbeTimeout)
	if err != nil {
		return lockError(eng.Path()+lockSuffix, fmt.Errorf("schema probe: %w", err))
	}
	if len(rows) > 0 {
		return nil
	}
	if err := eng.Exec(ctx, engine.Schema); err != nil {
		return fmt.Errorf("run schema DDL: %w", err)
	}
	return nil
}

// installAlgorithmExtension is a no-op hook: the graph algorithms in this
// implementation run in Go over a projected adjacency list (internal/
// graphalgo) rather than through an engine-side extension, so there is
// nothing to install.
func (m *Manager) installAlgorithmExtension(eng *engine.Engine) {
	m.log.Debug("graph-algorithm projection is computed in-process; no extension to install", zap.String("path", eng.Path()))
}

// ExecuteQuery runs cypher-shaped SQL against handle's engine with an
// optional timeout (default 30s).
func (m *Manager) ExecuteQuery(ctx context.Context, h *Handle, query string, params []any, timeout time.Duration) ([]engine.Row, error) {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return h.Engine.ExecuteQuery(ctx, query, params, timeout)
}

// Transaction runs fn within a transaction bound to handle's connection.
func (m *Manager) Transaction(ctx context.Context, h *Handle, fn func(ctx context.Context, tx *engine.Tx) error) error {
	return h.Engine.Transaction(ctx, fn)
}

// Close releases handle and removes it from the registry.
func (m *Manager) Close(h *Handle) error {
	m.mu.Lock()
	delete(m.handles, h.Path)
	m.mu.Unlock()
	return h.Close()
}

// CloseAll releases every cached handle — used by the Memory Service's
// shutdown().
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.handles))
	for _, h := range m.handles {
		handles = append(handles, h)
	}
	m.handles = make(map[string]*Handle)
	m.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
