package content

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Snapshot is one immutable load of the data directory.
type Snapshot struct {
	Dataset  Dataset
	Version  uint64
	LoadedAt time.Time
}

// Store holds the current snapshot and notifies subscribers when a reload
// replaces it.
type Store struct {
	dir    string
	logger *zap.Logger

	current atomic.Pointer[Snapshot]

	mu      sync.Mutex
	version uint64
	subs    []func(*Snapshot)
}

// NewStore loads dir once. It fails when the initial load fails.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{dir: dir, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps an in-memory dataset. Reload is a no-op.
func NewStaticStore(ds Dataset) *Store {
	s := &Store{logger: zap.NewNop(), version: 1}
	s.current.Store(&Snapshot{Dataset: ds, Version: 1, LoadedAt: time.Now()})
	return s
}

// Dir returns the watched data directory, empty for static stores.
func (s *Store) Dir() string {
	return s.dir
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload reads the data directory again. On failure the previous snapshot
// stays active.
func (s *Store) Reload() error {
	if s.dir == "" {
		return nil
	}
	ds, err := Load(s.dir)
	if err != nil {
		return fmt.Errorf("failed to load data from %s: %w", s.dir, err)
	}

	s.mu.Lock()
	s.version++
	snap := &Snapshot{Dataset: ds, Version: s.version, LoadedAt: time.Now()}
	s.current.Store(snap)
	subs := append([]func(*Snapshot){}, s.subs...)
	s.mu.Unlock()

	s.logger.Info("Data loaded",
		zap.String("dir", s.dir),
		zap.Uint64("version", snap.Version),
		zap.Int("milestones", len(ds.Academic)+len(ds.Work)),
		zap.Int("events", len(ds.Events())),
		zap.Int("projects", len(ds.Projects)))

	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

// Subscribe calls fn with the current snapshot and again after every
// successful reload.
func (s *Store) Subscribe(fn func(*Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	snap := s.current.Load()
	s.mu.Unlock()
	if snap != nil {
		fn(snap)
	}
}
