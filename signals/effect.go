package signals

// Effect runs fn once immediately, then again whenever any source changes.
// The returned function cancels all source subscriptions.
func Effect(fn func(), sources ...Observable) (cancel func()) {
	cancels := make([]func(), 0, len(sources))
	for _, src := range sources {
		cancels = append(cancels, src.observe(fn))
	}
	fn()

	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
