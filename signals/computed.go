package signals

// Computed is a read-only cell derived from one or more upstream cells.
// Dependencies are declared explicitly at construction; the derivation
// function is re-run whenever any upstream cell changes and must never
// write back into its inputs.
type Computed[T any] struct {
	out     *Signal[T]
	cancels []func()
}

// Derive builds a Computed from a single upstream cell.
func Derive[A, T any](a Readable[A], fn func(A) T) *Computed[T] {
	c := &Computed[T]{out: New(fn(a.Get()))}
	c.cancels = append(c.cancels, a.Subscribe(func(av A) {
		c.out.Set(fn(av))
	}))
	return c
}

// Derive2 builds a Computed from two upstream cells.
func Derive2[A, B, T any](a Readable[A], b Readable[B], fn func(A, B) T) *Computed[T] {
	c := &Computed[T]{out: New(fn(a.Get(), b.Get()))}
	recompute := func() {
		c.out.Set(fn(a.Get(), b.Get()))
	}
	c.cancels = append(c.cancels,
		a.Subscribe(func(A) { recompute() }),
		b.Subscribe(func(B) { recompute() }),
	)
	return c
}

// Derive3 builds a Computed from three upstream cells.
func Derive3[A, B, C, T any](a Readable[A], b Readable[B], cc Readable[C], fn func(A, B, C) T) *Computed[T] {
	c := &Computed[T]{out: New(fn(a.Get(), b.Get(), cc.Get()))}
	recompute := func() {
		c.out.Set(fn(a.Get(), b.Get(), cc.Get()))
	}
	c.cancels = append(c.cancels,
		a.Subscribe(func(A) { recompute() }),
		b.Subscribe(func(B) { recompute() }),
		cc.Subscribe(func(C) { recompute() }),
	)
	return c
}

// Get returns the current derived value.
func (c *Computed[T]) Get() T {
	return c.out.Get()
}

// Subscribe registers fn to run with every new derived value.
func (c *Computed[T]) Subscribe(fn func(T)) (cancel func()) {
	return c.out.Subscribe(fn)
}

// Stop detaches the Computed from its upstream cells.
// After Stop the last derived value remains readable but never changes.
func (c *Computed[T]) Stop() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

func (c *Computed[T]) observe(fn func()) (cancel func()) {
	return c.out.observe(fn)
}
