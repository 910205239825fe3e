package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/travspan"
	"github.com/aretw0/travspan/internal/logging"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Run is a live engine registered under an ID.
type Run struct {
	ID      string
	Graph   string
	Created time.Time
	engine  *travspan.Engine
}

// Manager orchestrates run access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	runsMu sync.RWMutex
	runs   map[string]*Run

	locker     ports.RunLocker
	lockTTL    time.Duration
	logger     *slog.Logger
	engineOpts []travspan.Option
	newID      func() string
	now        func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.RunLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks. The default is 30s.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEngineOptions are applied to every engine the manager creates.
func WithEngineOptions(opts ...travspan.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// WithIDGenerator replaces the random run ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a Manager that persists snapshots to store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		runs:    make(map[string]*Run),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
		newID:   randomID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// acquire gets or creates a lock entry and increments its reference count.
func (m *Manager) acquire(runID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[runID]
	if !exists {
		entry = &lockEntry{}
		m.locks[runID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(runID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[runID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, runID)
	}
}

// activeLocks reports how many lock entries are held. Used by tests.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// WithLock executes fn while holding the lock for the run.
func (m *Manager) WithLock(ctx context.Context, runID string, fn func(context.Context) error) error {
	entry := m.acquire(runID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(runID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, runID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"run_id", runID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) get(runID string) (*Run, error) {
	m.runsMu.RLock()
	defer m.runsMu.RUnlock()
	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, runID)
	}
	return run, nil
}

// Create starts a run on g and registers it under runID. An empty runID gets a generated one.
// graphName is informational and reported by Info.
func (m *Manager) Create(ctx context.Context, runID, graphName string, g ports.GraphProvider, cfg domain.Config) (*domain.Snapshot, error) {
	if runID == "" {
		runID = m.newID()
	}

	var snap *domain.Snapshot
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		if _, err := m.get(runID); err == nil {
			return fmt.Errorf("%w: %s", domain.ErrRunExists, runID)
		}

		opts := append([]travspan.Option{travspan.WithLogger(m.logger), travspan.WithName(runID)}, m.engineOpts...)
		eng, err := travspan.New(g, opts...)
		if err != nil {
			return err
		}
		if err := eng.Start(ctx, cfg); err != nil {
			return err
		}

		run := &Run{ID: runID, Graph: graphName, Created: m.now(), engine: eng}
		snap, err = m.persist(ctx, run)
		if err != nil {
			return err
		}

		m.runsMu.Lock()
		m.runs[runID] = run
		m.runsMu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("run created", "run_id", runID, "graph", graphName, "algorithm", snap.Config.Algorithm)
	return snap, nil
}

func (m *Manager) persist(ctx context.Context, run *Run) (*domain.Snapshot, error) {
	snap, err := run.engine.Snapshot()
	if err != nil {
		return nil, err
	}
	snap.ID = run.ID
	if err := m.store.Save(ctx, run.ID, &snap); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return &snap, nil
}

// mutate runs fn on the live engine of runID under the run lock and persists the outcome.
// The snapshot is saved even when fn fails part way, so the store never lags the engine.
func (m *Manager) mutate(ctx context.Context, runID string, fn func(context.Context, *travspan.Engine) error) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		run, err := m.get(runID)
		if err != nil {
			return err
		}
		fnErr := fn(ctx, run.engine)
		snap, err = m.persist(context.WithoutCancel(ctx), run)
		return errors.Join(fnErr, err)
	})
	return snap, err
}

// Step advances runID by up to count steps, stopping early at DONE.
// Stepping a run that is already done fails with domain.ErrAlreadyTerminated.
func (m *Manager) Step(ctx context.Context, runID string, count int) (*domain.Snapshot, error) {
	if count < 1 {
		count = 1
	}
	return m.mutate(ctx, runID, func(ctx context.Context, eng *travspan.Engine) error {
		if eng.IsDone() {
			return domain.ErrAlreadyTerminated
		}
		_, err := eng.Run(ctx, count)
		return err
	})
}

// Iterate advances runID by one iteration of the outer search loop.
// Like Step it fails with domain.ErrAlreadyTerminated once the run is done.
func (m *Manager) Iterate(ctx context.Context, runID string) (*domain.Snapshot, error) {
	return m.mutate(ctx, runID, func(ctx context.Context, eng *travspan.Engine) error {
		if eng.IsDone() {
			return domain.ErrAlreadyTerminated
		}
		_, err := eng.Iterate(ctx)
		return err
	})
}

// RunToEnd steps runID until DONE, or until maxSteps steps if maxSteps is positive.
func (m *Manager) RunToEnd(ctx context.Context, runID string, maxSteps int) (*domain.Snapshot, error) {
	return m.mutate(ctx, runID, func(ctx context.Context, eng *travspan.Engine) error {
		_, err := eng.Run(ctx, maxSteps)
		return err
	})
}

// RunUntil steps runID until bp matches, the run is done or maxSteps steps ran.
func (m *Manager) RunUntil(ctx context.Context, runID string, bp travspan.Breakpoint, maxSteps int) (*domain.Snapshot, bool, error) {
	var hit bool
	snap, err := m.mutate(ctx, runID, func(ctx context.Context, eng *travspan.Engine) error {
		var err error
		hit, _, err = eng.RunUntil(ctx, bp, maxSteps)
		return err
	})
	return snap, hit, err
}

// Restart replays runID from START with its original configuration.
func (m *Manager) Restart(ctx context.Context, runID string) (*domain.Snapshot, error) {
	return m.mutate(ctx, runID, func(ctx context.Context, eng *travspan.Engine) error {
		return eng.Restart(ctx)
	})
}

// Snapshot returns the state of runID. Runs that are not live in this process
// are served from the store.
func (m *Manager) Snapshot(ctx context.Context, runID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		run, err := m.get(runID)
		if err != nil {
			snap, err = m.store.Load(ctx, runID)
			return err
		}
		s, err := run.engine.Snapshot()
		if err != nil {
			return err
		}
		s.ID = runID
		snap = &s
		return nil
	})
	return snap, err
}

// Result returns what runID produced so far. Only live runs have results.
func (m *Manager) Result(ctx context.Context, runID string) (*domain.Result, error) {
	var res *domain.Result
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		run, err := m.get(runID)
		if err != nil {
			return err
		}
		r, err := run.engine.Result()
		if err != nil {
			return err
		}
		res = &r
		return nil
	})
	return res, err
}

// Info returns the registration of a live run.
func (m *Manager) Info(runID string) (Run, error) {
	run, err := m.get(runID)
	if err != nil {
		return Run{}, err
	}
	return Run{ID: run.ID, Graph: run.Graph, Created: run.Created}, nil
}

// Delete forgets runID and removes its snapshot.
func (m *Manager) Delete(ctx context.Context, runID string) error {
	return m.WithLock(ctx, runID, func(ctx context.Context) error {
		m.runsMu.Lock()
		delete(m.runs, runID)
		m.runsMu.Unlock()
		return m.store.Delete(ctx, runID)
	})
}

// List delegates to the store, so it includes runs persisted by other replicas.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}
