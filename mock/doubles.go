// Package mock holds the test doubles shared across package test suites.
package mock

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
)

// Fetcher is a scripted collection fetcher.
type Fetcher[T any] struct {
	OneFunc func(ctx context.Context, id string) (T, error)
	AllFunc func(ctx context.Context) ([]T, error)

	OneCalls atomic.Int32
	AllCalls atomic.Int32
}

func (f *Fetcher[T]) FetchOne(ctx context.Context, id string) (T, error) {
	f.OneCalls.Add(1)
	if f.OneFunc == nil {
		var zero T
		return zero, nil
	}
	return f.OneFunc(ctx, id)
}

func (f *Fetcher[T]) FetchAll(ctx context.Context) ([]T, error) {
	f.AllCalls.Add(1)
	if f.AllFunc == nil {
		return nil, nil
	}
	return f.AllFunc(ctx)
}

// GatedFetcher blocks each fetch until released, so tests can interleave
// concurrent loads deterministically.
type GatedFetcher[T any] struct {
	Entered chan string
	Release chan struct{}

	mu      sync.Mutex
	results map[string]T
	errs    map[string]error
}

func NewGatedFetcher[T any]() *GatedFetcher[T] {
	return &GatedFetcher[T]{
		Entered: make(chan string, 8),
		Release: make(chan struct{}),
		results: make(map[string]T),
		errs:    make(map[string]error),
	}
}

// Script sets the result returned for id once the gate opens.
func (f *GatedFetcher[T]) Script(id string, result T, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[id] = result
	f.errs[id] = err
}

func (f *GatedFetcher[T]) FetchOne(ctx context.Context, id string) (T, error) {
	f.Entered <- id
	select {
	case <-f.Release:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[id], f.errs[id]
}

func (f *GatedFetcher[T]) FetchAll(ctx context.Context) ([]T, error) {
	f.Entered <- ""
	select {
	case <-f.Release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return []T{f.results[""]}, f.errs[""]
}

// ShutdownRecorder is a service instance that records teardown order.
type ShutdownRecorder struct {
	Label string
	Order *[]string
	Err   error
}

func (s *ShutdownRecorder) Shutdown(ctx context.Context) error {
	if s.Order != nil {
		*s.Order = append(*s.Order, s.Label)
	}
	return s.Err
}

// PageRenderer serves a fixed body and counts invocations.
type PageRenderer struct {
	Body  string
	Calls atomic.Int32
}

func (p *PageRenderer) RenderPage(w http.ResponseWriter, r *http.Request) {
	p.Calls.Add(1)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(p.Body))
}
