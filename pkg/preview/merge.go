package preview

import (
	"errors"

	"github.com/aretw0/quill/pkg/domain"
)

// ErrNoSessionState is returned when an engine exposes no state to merge into.
var ErrNoSessionState = errors.New("engine has no session state")

// MergeOverlay applies overlay onto the live session state in place.
// Overlay keys overwrite or insert; keys absent from the overlay are untouched.
// It returns the keys whose value actually changed.
func MergeOverlay(state domain.SessionState, overlay map[string]any) (map[string]any, error) {
	if len(overlay) == 0 {
		return nil, nil
	}
	if state == nil {
		return nil, ErrNoSessionState
	}

	before := make(domain.SessionState, len(overlay))
	for k := range overlay {
		if v, ok := state[k]; ok {
			before[k] = v
		}
	}

	state.Merge(overlay)

	after := make(domain.SessionState, len(overlay))
	for k := range overlay {
		after[k] = state[k]
	}
	return domain.DiffState(before, after), nil
}
