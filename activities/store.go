// Package activities holds the fetch lifecycle store for activity records.
//
// A Store owns a State (the last fetched activities plus a Status) and changes
// it only through three transitions: FetchStarted, FetchSucceeded and
// FetchFailed. TriggerFetch drives a full lifecycle against a Fetcher.
//
// # Ordering
//
// Resolutions are applied in the order they arrive, not the order their
// fetches were triggered. With two overlapping fetches the one that resolves
// last wins, even if it was issued first. WithDiscardStale tags each fetch with
// a request id and drops resolutions that are not for the latest request.
//
// # Example
//
//	store := activities.NewStore(client, activities.WithLogger(logger))
//	unsubscribe := store.Subscribe(func(s activities.State) {
//	    fmt.Printf("%d activities (%s)\n", len(s.Activities), s.Status)
//	})
//	defer unsubscribe()
//
//	<-store.TriggerFetch(ctx)
package activities

import (
	"context"
	"log/slog"
	"sync"
)

// Fetcher performs the network read of activity records.
type Fetcher interface {
	List(ctx context.Context) ([]Activity, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]Activity, error)

// List calls f(ctx).
func (f FetcherFunc) List(ctx context.Context) ([]Activity, error) {
	return f(ctx)
}

// Listener is notified with every state the store enters.
// Listeners run on the goroutine that applied the transition. They may call
// Snapshot but must not dispatch to the store themselves.
type Listener func(State)

// Store is the fetch lifecycle state container.
type Store struct {
	fetcher      Fetcher
	logger       *slog.Logger
	metrics      *Metrics
	discardStale bool

	mu        sync.Mutex
	state     State
	requestID uint64
	listeners map[int]Listener
	nextID    int

	// notifyMu serialises transitions, listener calls and metric updates.
	// It is always taken before mu.
	notifyMu sync.Mutex
	inflight sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics records fetch outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithDiscardStale drops resolutions of fetches that have been superseded by
// a newer TriggerFetch call.
func WithDiscardStale() Option {
	return func(s *Store) {
		s.discardStale = true
	}
}

// NewStore creates a Store in the initial state.
func NewStore(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:   fetcher,
		logger:    slog.Default(),
		state:     InitialState(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers l for state changes and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Dispatch applies e to the current state and notifies listeners.
// Events are applied from whatever state the store is in, so a
// FetchSucceeded dispatched while Waiting moves straight to StatusSuccess.
func (s *Store) Dispatch(e Event) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.transition(e)
}

// TriggerFetch starts a fetch. The store enters StatusFetching before
// TriggerFetch returns; the returned channel is closed once the fetch has
// resolved and its transition (if any) has been applied.
//
// Fetch errors are logged and recorded as StatusFailed; they are never returned.
func (s *Store) TriggerFetch(ctx context.Context) <-chan struct{} {
	s.notifyMu.Lock()
	s.mu.Lock()
	s.requestID++
	id := s.requestID
	s.mu.Unlock()
	s.inflight.Add(1)
	s.transition(FetchStarted{})
	s.notifyMu.Unlock()

	done := make(chan struct{})
	go func() {
		defer s.inflight.Done()
		defer close(done)

		acts, err := s.fetcher.List(ctx)
		if err != nil {
			s.logger.Warn("activity fetch failed", "request_id", id, "error", err)
			s.resolve(id, FetchFailed{}, outcomeFailed)
			return
		}
		s.logger.Debug("activity fetch succeeded", "request_id", id, "count", len(acts))
		s.resolve(id, FetchSucceeded{Activities: acts}, outcomeSuccess)
	}()

	return done
}

// Wait blocks until every fetch started so far has resolved.
func (s *Store) Wait() {
	s.inflight.Wait()
}

func (s *Store) resolve(id uint64, e Event, outcome string) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	latest := s.requestID
	s.mu.Unlock()

	if s.discardStale && id != latest {
		s.logger.Debug("discarding stale fetch result",
			"request_id", id,
			"latest_request_id", latest,
			"outcome", outcome,
		)
		s.metrics.observe(outcomeDiscarded, State{})
		return
	}
	state := s.transition(e)
	s.metrics.observe(outcome, state)
}

// transition must be called with s.notifyMu held. s.mu is released before
// listeners run so they can read Snapshot.
func (s *Store) transition(e Event) State {
	s.mu.Lock()
	s.state = Reduce(s.state, e)
	state := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state.clone())
	}
	return state
}
