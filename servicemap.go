package headless

// ServicesMap is an insertion-ordered collection of providers used to wire a
// composition root. The builder is immutable: Add returns a new map and
// leaves the receiver untouched, so a base map can be shared and extended per
// root (typically per test) without cross-talk.
type ServicesMap struct {
	entries []Provider
}

// NewServicesMap returns an empty map.
func NewServicesMap() *ServicesMap {
	return &ServicesMap{}
}

// Add returns a new map with p appended. Registering a Definition that is
// already present replaces the earlier provider; the replacement takes the
// position of the new Add. Adding a nil provider is a wiring bug and panics.
func (m *ServicesMap) Add(p Provider) *ServicesMap {
	if p == nil {
		panic(&NilProviderError{})
	}

	entries := make([]Provider, 0, len(m.entries)+1)
	for _, e := range m.entries {
		if e.token() == p.token() {
			continue
		}
		entries = append(entries, e)
	}
	entries = append(entries, p)
	return &ServicesMap{entries: entries}
}

// Len returns the number of registered providers.
func (m *ServicesMap) Len() int {
	return len(m.entries)
}

// Names returns the diagnostic names of all providers in insertion order.
func (m *ServicesMap) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name()
	}
	return names
}

func (m *ServicesMap) provider(token any) (Provider, bool) {
	for _, e := range m.entries {
		if e.token() == token {
			return e, true
		}
	}
	return nil, false
}
