package headless

// Values is an immutable bag of scope values attached to a root. It provides
// value inheritance for service configuration that cuts across providers
// (loggers, tenant identifiers, feature toggles) without ambient globals.
type Values struct {
	entries map[any]any
}

// NewValues returns an empty value bag.
func NewValues() *Values {
	return &Values{entries: map[any]any{}}
}

// WithValue returns a new bag with the key-value pair added. The receiver is
// never mutated.
func (v *Values) WithValue(key, val any) *Values {
	next := make(map[any]any, len(v.entries)+1)
	for k, existing := range v.entries {
		next[k] = existing
	}
	next[key] = val
	return &Values{entries: next}
}

// Value returns the value for key, or nil.
func (v *Values) Value(key any) any {
	if v == nil {
		return nil
	}
	return v.entries[key]
}

// MergeWith combines two bags into a new one. Values from other override
// values with the same key in the receiver.
func (v *Values) MergeWith(other *Values) *Values {
	merged := make(map[any]any, len(v.entries))
	for k, val := range v.entries {
		merged[k] = val
	}
	if other != nil {
		for k, val := range other.entries {
			merged[k] = val
		}
	}
	return &Values{entries: merged}
}
