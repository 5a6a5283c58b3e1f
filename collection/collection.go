// Package collection implements the reactive list/detail service every
// headless package repeats: items, a focused entity, a loading flag and an
// error message, each held in its own signal, fed by an opaque remote
// fetcher.
package collection

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/centraunit/headless/signals"
	"github.com/rs/zerolog"
)

// Fetcher is the boundary to the remote platform. Implementations wrap
// whatever client SDK serves the entity; this package never builds requests
// itself.
type Fetcher[T any] interface {
	FetchOne(ctx context.Context, id string) (T, error)
	FetchAll(ctx context.Context) ([]T, error)
}

// errNoFetcher is stored on the error signal when a load is requested on a
// service built without a Fetcher, such as one seeded purely from Items.
const errNoFetcher = "no fetcher configured"

// Config configures a Service.
//
// Supplying Items seeds the list directly: the service starts settled, with
// no loading flag and no remote call. Supplying ID only records the entity to
// fetch; nothing is loaded until LoadOne runs.
type Config[T any] struct {
	Fetcher Fetcher[T]
	Items   []T
	ID      string
}

// Service holds the reactive state for one entity collection. Construction
// is purely synchronous; remote work happens only in the explicit Load and
// LoadOne operations, which the caller can run, await and cancel.
type Service[T any] struct {
	fetcher Fetcher[T]
	id      string
	log     zerolog.Logger

	items    *signals.Signal[[]T]
	data     *signals.Signal[T]
	loading  *signals.Signal[bool]
	errorMsg *signals.Signal[string]

	// generation fences out stale completions: a load that finishes after a
	// newer load has started writes nothing.
	generation atomic.Uint64
}

// Option configures a Service at construction time.
type Option[T any] func(*Service[T])

// WithLogger sets the service logger. Defaults to a disabled logger.
func WithLogger[T any](log zerolog.Logger) Option[T] {
	return func(s *Service[T]) {
		s.log = log
	}
}

// New constructs the synchronous shell of the service.
func New[T any](cfg Config[T], opts ...Option[T]) *Service[T] {
	var zero T
	s := &Service[T]{
		fetcher:  cfg.Fetcher,
		id:       cfg.ID,
		log:      zerolog.Nop(),
		items:    signals.New(cfg.Items),
		data:     signals.New(zero),
		loading:  signals.New(false),
		errorMsg: signals.New(""),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Items is the current list.
func (s *Service[T]) Items() signals.Readable[[]T] { return s.items }

// Data is the currently focused entity.
func (s *Service[T]) Data() signals.Readable[T] { return s.data }

// Loading reports whether a load is in flight.
func (s *Service[T]) Loading() signals.Readable[bool] { return s.loading }

// ErrorMessage is the last remote failure, empty when none. It is cleared
// before a subsequent success publishes data, never left stale.
func (s *Service[T]) ErrorMessage() signals.Readable[string] { return s.errorMsg }

// Load fetches the full list. The loading flag is raised synchronously
// before the remote call starts. Remote failures are stored on the error
// signal, never returned; the previous list is left untouched on failure.
func (s *Service[T]) Load(ctx context.Context) {
	if s.fetcher == nil {
		s.errorMsg.Set(errNoFetcher)
		return
	}
	gen := s.generation.Add(1)
	s.loading.Set(true)

	items, err := s.fetcher.FetchAll(ctx)
	if s.stale(gen) {
		return
	}
	if err != nil {
		s.fail(err)
		return
	}
	s.errorMsg.Set("")
	s.items.Set(items)
	s.loading.Set(false)
}

// LoadOne fetches a single entity. With an empty id the id recorded in the
// Config is used. Semantics match Load.
func (s *Service[T]) LoadOne(ctx context.Context, id string) {
	if s.fetcher == nil {
		s.errorMsg.Set(errNoFetcher)
		return
	}
	if id == "" {
		id = s.id
	}
	gen := s.generation.Add(1)
	s.loading.Set(true)

	data, err := s.fetcher.FetchOne(ctx, id)
	if s.stale(gen) {
		return
	}
	if err != nil {
		s.fail(err)
		return
	}
	s.errorMsg.Set("")
	s.data.Set(data)
	s.loading.Set(false)
}

func (s *Service[T]) stale(gen uint64) bool {
	if s.generation.Load() == gen {
		return false
	}
	s.log.Debug().Uint64("generation", gen).Msg("discarding stale load result")
	return true
}

func (s *Service[T]) fail(err error) {
	if errors.Is(err, context.Canceled) {
		// A cancelled load is not a user-visible failure.
		s.loading.Set(false)
		return
	}
	s.log.Warn().Err(err).Msg("remote load failed")
	s.errorMsg.Set(err.Error())
	s.loading.Set(false)
}
