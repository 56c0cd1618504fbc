package domain

import (
	"reflect"
)

// DiffState calculates the keys that differ between oldState and newState.
// Added and modified keys carry their new value. Deleted keys are present
// with a nil value. If nothing changed, it returns nil.
func DiffState(oldState, newState SessionState) map[string]any {
	delta := make(map[string]any)

	// If old is nil, everything in new is a delta
	if oldState == nil {
		for k, v := range newState {
			delta[k] = v
		}
		return nilIfEmpty(delta)
	}

	// Check for Added or Modified
	for k, newVal := range newState {
		oldVal, exists := oldState[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	// Check for Deletions
	for k := range oldState {
		if _, exists := newState[k]; !exists {
			delta[k] = nil
		}
	}

	return nilIfEmpty(delta)
}

func nilIfEmpty(delta map[string]any) map[string]any {
	if len(delta) == 0 {
		return nil
	}
	return delta
}
