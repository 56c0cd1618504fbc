package domain

// SessionState holds the variable state of a session.
// Keys are variable names, values are JSON-compatible scalars or collections.
type SessionState map[string]any

// NewSessionState creates a state seeded with a copy of the given values.
func NewSessionState(seed map[string]any) SessionState {
	s := make(SessionState, len(seed))
	for k, v := range seed {
		s[k] = v
	}
	return s
}

// Merge applies the overlay in place: every overlay key overwrites or inserts
// the matching key. Keys absent from the overlay are left untouched.
func (s SessionState) Merge(overlay map[string]any) {
	for k, v := range overlay {
		s[k] = v
	}
}
