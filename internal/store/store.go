// Package store implements the authoritative, persisted task collection.
//
// The store owns the task list outright: the UI and CLI only ever see
// snapshot copies. Every successful mutation persists the full list to the
// key-value collaborator and notifies subscribed observers with the new
// snapshot. Persistence is best-effort: the in-memory list always advances,
// and a failed write is reported through the persist-error hook and the
// logger rather than returned to the caller. The next mutation rewrites the
// whole envelope, so there is no retry policy.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/kanbo/kanbo-go/internal/storage"
	"github.com/kanbo/kanbo-go/internal/task"
)

// DefaultKey is the storage key the board envelope lives under.
const DefaultKey = "board"

// Observer is invoked with the new snapshot after each successful mutation.
type Observer func(snapshot []task.Task)

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithLogger sets the logger used for load and persist diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithSchemaPath enables JSON Schema validation of loaded envelopes.
func WithSchemaPath(path string) Option {
	return func(s *Store) {
		s.schemaPath = path
	}
}

// Store is the single source of truth for the task list.
type Store struct {
	mu           sync.Mutex
	kv           storage.KV
	key          string
	schemaPath   string
	logger       *log.Logger
	tasks        []task.Task
	observers    []Observer
	persistHooks []func(error)
}

// Open constructs a store bound to kv and rehydrates it from the board key.
// A missing, unreadable, or invalid envelope falls back to an empty list;
// startup never fails on bad stored data.
func Open(ctx context.Context, kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.load(ctx)
	return s
}

// load reads and validates the persisted envelope, returning an empty list
// on any failure.
func (s *Store) load(ctx context.Context) []task.Task {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("no stored board, starting empty", "key", s.key)
		} else {
			s.logger.Warn("reading stored board, starting empty", "key", s.key, "err", err)
		}
		return []task.Task{}
	}

	env, err := task.Decode(data)
	if err != nil {
		s.logger.Warn("stored board is corrupt, starting empty", "key", s.key, "err", err)
		return []task.Task{}
	}

	result := env.Validate(task.ValidationOptions{SchemaPath: s.schemaPath})
	for _, w := range result.Warnings {
		s.logger.Debug("board validation", "warning", w)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			s.logger.Warn("stored board is invalid", "err", e)
		}
		return []task.Task{}
	}

	return env.Tasks
}

// Reload re-reads the persisted envelope and replaces the in-memory list,
// picking up writes from other processes sharing the board key. Unlike the
// startup load, a missing, unreadable, or invalid envelope keeps the current
// list: a transient storage hiccup must not wipe a live board. Observers are
// notified only when the list actually changed.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()

	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.mu.Unlock()
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("reloading board, keeping current list", "key", s.key, "err", err)
		}
		return
	}

	env, err := task.Decode(data)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("reloaded board is corrupt, keeping current list", "key", s.key, "err", err)
		return
	}
	result := env.Validate(task.ValidationOptions{SchemaPath: s.schemaPath})
	if !result.Valid {
		s.mu.Unlock()
		for _, e := range result.Errors {
			s.logger.Warn("reloaded board is invalid, keeping current list", "err", e)
		}
		return
	}

	if slices.Equal(s.tasks, env.Tasks) {
		s.mu.Unlock()
		return
	}
	s.tasks = env.Tasks
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
}

// Subscribe registers an observer called with the new snapshot after each
// successful mutation. Observers must not call back into the store's
// mutating operations from the callback.
func (s *Store) Subscribe(obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// OnPersistError registers a hook invoked when a best-effort persist fails.
func (s *Store) OnPersistError(hook func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistHooks = append(s.persistHooks, hook)
}

// Tasks returns a snapshot copy of the list, most recently created first.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.Clone(s.tasks)
}

// Len returns the number of tasks on the board.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Create adds a new backlog task at the front of the list and returns it.
func (s *Store) Create(ctx context.Context, title, description string) task.Task {
	s.mu.Lock()
	t := task.New(title, description)
	s.tasks = append([]task.Task{t}, s.tasks...)
	s.persistLocked(ctx)
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return t
}

// UpdateStatus moves the task with the given id to status. An unknown id is
// a silent no-op: stale ids can only come from an outdated view, never from
// the user. A non-real status (the rendering placeholder) is refused.
func (s *Store) UpdateStatus(ctx context.Context, id string, status task.Status) {
	if !status.Real() {
		s.logger.Warn("refusing to store non-persistable status", "id", id, "status", status)
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Status = status
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		s.logger.Debug("update for unknown task", "id", id)
		return
	}
	s.persistLocked(ctx)
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
}

// Remove deletes the task with the given id. An unknown id is a silent no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("remove for unknown task", "id", id)
		return
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.persistLocked(ctx)
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
}

// persistLocked writes the full list under the board key. Failures are
// reported to the persist hooks and logged, never returned: the UI stays
// available even when storage is not.
func (s *Store) persistLocked(ctx context.Context) {
	env := task.NewEnvelope(task.Clone(s.tasks))
	data, err := env.Encode()
	if err == nil {
		err = s.kv.Set(ctx, s.key, data)
	}
	if err == nil {
		return
	}

	s.logger.Warn("persisting board failed, in-memory state kept", "key", s.key, "err", err)
	for _, hook := range s.persistHooks {
		hook(err)
	}
}

// snapshotLocked copies the list and observer set for notification outside
// the lock.
func (s *Store) snapshotLocked() ([]task.Task, []Observer) {
	snapshot := task.Clone(s.tasks)
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	return snapshot, observers
}

func notify(observers []Observer, snapshot []task.Task) {
	for _, obs := range observers {
		obs(snapshot)
	}
}
