package headless

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Shutdowner is the optional teardown hook for service instances. A root
// calls it in reverse construction order when the root is closed.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Root is a composition root: it owns one live instance per registered
// Definition and scopes lookups for everything built on top of it. Roots
// nest; a lookup resolves against the nearest enclosing root that registers
// the Definition, so an inner root's registration shadows an outer one.
type Root struct {
	parent *Root
	values *Values
	log    zerolog.Logger

	mu        sync.RWMutex
	instances map[any]any
	teardown  []rootInstance
	closed    bool
}

type rootInstance struct {
	name     string
	instance any
}

// Option configures a Root at construction time.
type Option func(*Root)

// WithParent nests the new root under parent. Definitions not registered
// locally resolve against the parent chain.
func WithParent(parent *Root) Option {
	return func(r *Root) {
		r.parent = parent
	}
}

// WithValue attaches a scope value readable by factories and consumers via
// Value. Inner roots shadow outer roots key by key.
func WithValue(key, val any) Option {
	return func(r *Root) {
		r.values = r.values.WithValue(key, val)
	}
}

// WithLogger sets the root's logger. Factories reach it through
// ResolveContext.Logger. Defaults to a disabled logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Root) {
		r.log = log
	}
}

// construction tracks one eager root build: the providers being wired, the
// chain of in-flight factories for cycle detection, and the build context.
type construction struct {
	root  *Root
	m     *ServicesMap
	ctx   context.Context
	chain map[any]bool
	stack []string
}

// NewRoot eagerly constructs every provider in m, in insertion order, and
// returns the live root. A factory error aborts construction: instances
// already built are shut down in reverse order and the factory's error is
// returned wrapped in a ConstructionError.
func NewRoot(ctx context.Context, m *ServicesMap, opts ...Option) (*Root, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	r := &Root{
		values:    NewValues(),
		log:       zerolog.Nop(),
		instances: make(map[any]any, m.Len()),
	}
	for _, opt := range opts {
		opt(r)
	}

	con := &construction{
		root:  r,
		m:     m,
		ctx:   ctx,
		chain: make(map[any]bool, m.Len()),
	}
	for _, entry := range m.entries {
		if _, err := con.ensure(entry.token(), entry.Name()); err != nil {
			r.closeLocked(ctx)
			return nil, err
		}
	}
	return r, nil
}

func (con *construction) ensure(token any, name string) (any, error) {
	if inst, ok := con.root.instances[token]; ok {
		return inst, nil
	}

	provider, ok := con.m.provider(token)
	if !ok {
		// Not registered locally: an already-constructed ancestor may
		// provide it.
		if con.root.parent != nil {
			if inst, ok := con.root.parent.instance(token); ok {
				return inst, nil
			}
		}
		return nil, &NotProvidedError{Definition: name}
	}

	if con.chain[token] {
		return nil, &CircularDependencyError{Chain: append(append([]string{}, con.stack...), name)}
	}
	con.chain[token] = true
	con.stack = append(con.stack, name)

	inst, err := provider.construct(con)

	delete(con.chain, token)
	con.stack = con.stack[:len(con.stack)-1]

	if err != nil {
		if _, structural := err.(*CircularDependencyError); structural {
			return nil, err
		}
		if _, structural := err.(*NotProvidedError); structural {
			return nil, err
		}
		return nil, &ConstructionError{Definition: name, Err: err}
	}

	con.root.instances[token] = inst
	con.root.teardown = append(con.root.teardown, rootInstance{name: name, instance: inst})
	con.root.log.Debug().Str("service", name).Msg("service constructed")
	return inst, nil
}

// Resolve returns the live instance for def from the nearest enclosing root
// that registers it. A lookup no root can satisfy is a wiring bug and
// returns NotProvidedError.
func Resolve[API any, Config any](r *Root, def *Definition[API, Config]) (API, error) {
	var zero API
	for scope := r; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		if scope.closed {
			scope.mu.RUnlock()
			return zero, &RootClosedError{Definition: def.name}
		}
		inst, ok := scope.instances[def]
		scope.mu.RUnlock()
		if !ok {
			continue
		}
		api, isAPI := inst.(API)
		if !isAPI {
			return zero, &TypeMismatchError{Definition: def.name}
		}
		return api, nil
	}
	return zero, &NotProvidedError{Definition: def.name}
}

// MustResolve is Resolve for composition code paths where a missing service
// is unrecoverable. It panics with the lookup error.
func MustResolve[API any, Config any](r *Root, def *Definition[API, Config]) API {
	api, err := Resolve(r, def)
	if err != nil {
		panic(err)
	}
	return api
}

// Value returns the scope value for key from this root, walking outward
// through parent roots.
func (r *Root) Value(key any) any {
	for scope := r; scope != nil; scope = scope.parent {
		if v := scope.values.Value(key); v != nil {
			return v
		}
	}
	return nil
}

// Logger returns the root's logger.
func (r *Root) Logger() zerolog.Logger {
	return r.log
}

// Close shuts the root's instances down in reverse construction order.
// Every Shutdowner runs even if an earlier one fails; the first failure is
// returned wrapped in a ShutdownError. Close is idempotent.
func (r *Root) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	return r.closeLocked(ctx)
}

func (r *Root) closeLocked(ctx context.Context) error {
	r.closed = true
	var firstErr error
	for i := len(r.teardown) - 1; i >= 0; i-- {
		entry := r.teardown[i]
		hook, ok := entry.instance.(Shutdowner)
		if !ok {
			continue
		}
		if err := hook.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = &ShutdownError{Definition: entry.name, Err: err}
		}
	}
	r.teardown = nil
	r.instances = map[any]any{}
	return firstErr
}

func (r *Root) instance(token any) (any, bool) {
	for scope := r; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		inst, ok := scope.instances[token]
		scope.mu.RUnlock()
		if ok {
			return inst, true
		}
	}
	return nil, false
}
