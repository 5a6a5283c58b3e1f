package headless

import (
	"fmt"
	"strings"
)

// CircularDependencyError reports a cycle between service factories detected
// during root construction.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Chain, " -> "))
}

// NotProvidedError reports a lookup for a Definition no enclosing root
// registers. This is a wiring bug, not a runtime condition.
type NotProvidedError struct {
	Definition string
}

func (e *NotProvidedError) Error() string {
	return fmt.Sprintf("no provider registered for service: %s", e.Definition)
}

// ConstructionError wraps an error returned by a service factory during root
// construction.
type ConstructionError struct {
	Definition string
	Err        error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construction failed for service %s: %v", e.Definition, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// NilFactoryError reports an Implementation whose factory is nil.
type NilFactoryError struct {
	Definition string
}

func (e *NilFactoryError) Error() string {
	return fmt.Sprintf("nil factory for service: %s", e.Definition)
}

// NilProviderError reports a nil provider passed to ServicesMap.Add.
type NilProviderError struct{}

func (e *NilProviderError) Error() string {
	return "nil provider added to services map"
}

// TypeMismatchError reports an instance that does not satisfy the API shape
// its Definition declares.
type TypeMismatchError struct {
	Definition string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("instance does not satisfy declared API for service: %s", e.Definition)
}

// RootClosedError reports a lookup against a root that has been closed.
type RootClosedError struct {
	Definition string
}

func (e *RootClosedError) Error() string {
	return fmt.Sprintf("root is closed, cannot resolve service: %s", e.Definition)
}

// ShutdownError wraps an error returned by a service's Shutdown hook.
type ShutdownError struct {
	Definition string
	Err        error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("shutdown failed for service %s: %v", e.Definition, e.Err)
}

func (e *ShutdownError) Unwrap() error {
	return e.Err
}
