package container

import (
	"fmt"
	"sync"
)

// ── Declarations ─────────────────────────────────────────────────────────────

// Factory builds a concrete value. By the time it runs, every dependency
// token declared for it has already been resolved.
type Factory func(c *Container) (any, error)

// descriptor is one declared service: its token, the ordered tokens it
// depends on, and the factory that builds it.
type descriptor struct {
	token   string
	deps    []string
	factory Factory
}

// ResolutionError reports a token that was resolved without a declaration.
type ResolutionError struct {
	Token string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("container: no declaration for [%s]", e.Token)
}

// Shutdowner is the optional lifecycle hook invoked by Teardown.
type Shutdowner interface {
	Shutdown()
}

// ── Container ────────────────────────────────────────────────────────────────

// Container resolves and memoizes singleton instances from a declared type
// graph. Resolution is lazy: nothing is constructed until the first Resolve
// for its token, and every later Resolve returns the identical instance.
type Container struct {
	mu sync.Mutex

	// token → declaration
	descriptors map[string]*descriptor

	// token → resolved singleton
	instances map[string]any

	// construction order, for GetAll and Teardown
	order []any

	// tokens currently being resolved (cycle detection)
	resolving map[string]bool
}

// New creates an empty container.
func New() *Container {
	return &Container{
		descriptors: make(map[string]*descriptor),
		instances:   make(map[string]any),
		resolving:   make(map[string]bool),
	}
}

// Declare registers a factory for token with its ordered dependency tokens.
// Declaring the same token again replaces the earlier declaration, but not
// an already-constructed instance.
func (c *Container) Declare(token string, factory Factory, deps ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.descriptors[token] = &descriptor{token: token, deps: deps, factory: factory}
}

// Instance registers a pre-built value as the singleton for token and
// records it for teardown.
func (c *Container) Instance(token string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[token] = v
	c.order = append(c.order, v)
}

// Bound returns true if token has a declaration or an instance.
func (c *Container) Bound(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, hasDecl := c.descriptors[token]
	_, hasInst := c.instances[token]
	return hasDecl || hasInst
}

// ── Resolution ───────────────────────────────────────────────────────────────

// Resolve returns the singleton for token, constructing it on first call.
// Declared dependencies are resolved recursively, in declared order, before
// the factory runs. An undeclared token yields a ResolutionError; a factory
// error propagates wrapped with the offending token and nothing is recorded.
func (c *Container) Resolve(token string) (any, error) {
	c.mu.Lock()
	if inst, ok := c.instances[token]; ok {
		c.mu.Unlock()
		return inst, nil
	}
	d, ok := c.descriptors[token]
	if !ok {
		c.mu.Unlock()
		return nil, &ResolutionError{Token: token}
	}
	if c.resolving[token] {
		c.mu.Unlock()
		return nil, fmt.Errorf("container: dependency cycle at [%s]", token)
	}
	c.resolving[token] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.resolving, token)
		c.mu.Unlock()
	}()

	for _, dep := range d.deps {
		if _, err := c.Resolve(dep); err != nil {
			return nil, fmt.Errorf("container: resolving [%s]: %w", token, err)
		}
	}

	inst, err := d.factory(c)
	if err != nil {
		return nil, fmt.Errorf("container: constructing [%s]: %w", token, err)
	}

	c.mu.Lock()
	// resolving only detects cycles; a second goroutine resolving an
	// in-flight token errors instead of waiting. Resolution happens on the
	// boot goroutine, which never hits that path.
	c.instances[token] = inst
	c.order = append(c.order, inst)
	c.mu.Unlock()
	return inst, nil
}

// MustResolve is Resolve for bootstrap paths where a failure is fatal.
func (c *Container) MustResolve(token string) any {
	inst, err := c.Resolve(token)
	if err != nil {
		panic(err)
	}
	return inst
}

// Resolve is a generic helper that resolves and type-asserts in one step.
//
//	svc, err := container.Resolve[*services.UserService](c, "services.users")
func Resolve[T any](c *Container, token string) (T, error) {
	var zero T
	inst, err := c.Resolve(token)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("container: [%s] resolved to %T, want %T", token, inst, zero)
	}
	return typed, nil
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

// GetAll returns every constructed instance in construction order.
func (c *Container) GetAll() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.order))
	copy(out, c.order)
	return out
}

// Teardown invokes the Shutdowner hook on every constructed instance, in
// construction order, then clears the registry. Declarations survive so the
// container can be resolved again after a hot restart.
func (c *Container) Teardown() {
	c.mu.Lock()
	torn := c.order
	c.order = nil
	c.instances = make(map[string]any)
	c.mu.Unlock()

	for _, inst := range torn {
		if s, ok := inst.(Shutdowner); ok {
			s.Shutdown()
		}
	}
}
