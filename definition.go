package headless

import (
	"context"

	"github.com/rs/zerolog"
)

// Definition is the identity token and typed contract of a service. API is
// the shape consumers receive from Resolve, Config the shape an
// implementation is constructed with. Identity is the token itself, so two
// definitions with the same name are still distinct services; the name is
// diagnostic only and process-unique by convention.
type Definition[API any, Config any] struct {
	name string
}

// NewDefinition registers a named service contract. Definitions are created
// once per logical service at package init and never mutated.
func NewDefinition[API any, Config any](name string) *Definition[API, Config] {
	return &Definition[API, Config]{name: name}
}

// Name returns the diagnostic name of the definition.
func (d *Definition[API, Config]) Name() string {
	return d.name
}

// Factory constructs a service instance. It must return the synchronous API
// immediately; remote work belongs in an explicit Load-style operation on the
// returned API, never inside the factory. A factory error aborts root
// construction.
type Factory[API any, Config any] func(rc *ResolveContext[Config]) (API, error)

// Implementation binds a Factory to exactly one Definition.
type Implementation[API any, Config any] struct {
	def     *Definition[API, Config]
	factory Factory[API, Config]
}

// Implement binds factory to def. The same Definition may have multiple
// Implementations (production, test double); a root holds at most one.
func Implement[API any, Config any](def *Definition[API, Config], factory Factory[API, Config]) Implementation[API, Config] {
	return Implementation[API, Config]{def: def, factory: factory}
}

// Provide pairs an Implementation with the Config it will be constructed
// with, producing an entry for a ServicesMap.
func Provide[API any, Config any](impl Implementation[API, Config], cfg Config) Provider {
	return &providerEntry[API, Config]{impl: impl, cfg: cfg}
}

// Provider is one (Definition, Implementation, Config) triple inside a
// ServicesMap.
type Provider interface {
	// Name returns the bound definition's diagnostic name.
	Name() string

	token() any
	construct(con *construction) (any, error)
}

type providerEntry[API any, Config any] struct {
	impl Implementation[API, Config]
	cfg  Config
}

func (p *providerEntry[API, Config]) Name() string {
	return p.impl.def.name
}

func (p *providerEntry[API, Config]) token() any {
	return p.impl.def
}

func (p *providerEntry[API, Config]) construct(con *construction) (any, error) {
	if p.impl.factory == nil {
		return nil, &NilFactoryError{Definition: p.impl.def.name}
	}
	rc := &ResolveContext[Config]{
		config: p.cfg,
		deps:   &Dependencies{con: con},
	}
	return p.impl.factory(rc)
}

// ResolveContext is what a Factory is handed: its configuration plus access
// to the enclosing root's values and sibling services.
type ResolveContext[Config any] struct {
	config Config
	deps   *Dependencies
}

// Config returns the configuration the provider was registered with.
func (rc *ResolveContext[Config]) Config() Config {
	return rc.config
}

// Context returns the context root construction runs under.
func (rc *ResolveContext[Config]) Context() context.Context {
	return rc.deps.con.ctx
}

// Value looks up a scope value on the constructing root, walking outward
// through parent roots.
func (rc *ResolveContext[Config]) Value(key any) any {
	return rc.deps.con.root.Value(key)
}

// Logger returns the constructing root's logger.
func (rc *ResolveContext[Config]) Logger() zerolog.Logger {
	return rc.deps.con.root.log
}

// Deps returns the dependency resolver for cross-service lookups.
// It is only valid while the factory runs.
func (rc *ResolveContext[Config]) Deps() *Dependencies {
	return rc.deps
}

// Dependencies resolves sibling services during construction. Cross-service
// calls are the only sanctioned channel between services, and they are wired
// here, inside factories, never through ambient globals.
type Dependencies struct {
	con *construction
}

// Lookup resolves def against the constructing root, instantiating it on
// demand if its provider has not run yet, or reading it from an enclosing
// parent root. Cycles between factories are detected and returned as
// CircularDependencyError.
func Lookup[API any, Config any](deps *Dependencies, def *Definition[API, Config]) (API, error) {
	var zero API
	inst, err := deps.con.ensure(def, def.name)
	if err != nil {
		return zero, err
	}
	api, ok := inst.(API)
	if !ok {
		return zero, &TypeMismatchError{Definition: def.name}
	}
	return api, nil
}
