// Package headless wires reactive services into composition roots.
//
// A Definition names a service contract: the API shape consumers receive and
// the Config shape an implementation is constructed with. Implement binds a
// factory to a Definition, Provide pairs it with a concrete config, and a
// ServicesMap collects providers for one root:
//
//	var Catalog = headless.NewDefinition[*catalog.Service, catalog.Config]("catalog")
//
//	m := headless.NewServicesMap().
//		Add(headless.Provide(headless.Implement(Catalog, catalog.New), catalog.Config{...}))
//
//	root, err := headless.NewRoot(ctx, m, headless.WithLogger(log))
//	svc := headless.MustResolve(root, Catalog)
//
// Roots construct their services eagerly, in insertion order, and own them:
// instances live exactly as long as the root, and Close tears them down in
// reverse order through the optional Shutdowner hook. Roots nest; an inner
// root's registration shadows an outer one for everything resolved against
// the inner root.
//
// Wiring mistakes (missing provider, factory error, dependency cycle) surface
// as typed errors at construction or lookup time and are meant to fail loudly.
// Runtime failures never travel through this package: services catch their own
// remote errors and publish them on signals.
package headless
