package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/quill/pkg/domain"
)

// Goto navigates to a passage, runs its statements and renders it.
// The session state and current passage only change if every step succeeds.
func (e *Engine) Goto(ctx context.Context, passageID string) (domain.Output, error) {
	if err := ctx.Err(); err != nil {
		return domain.Output{}, err
	}

	passage, err := e.passage(passageID)
	if err != nil {
		return domain.Output{}, err
	}

	scope, err := e.newScope(e.state)
	if err != nil {
		return domain.Output{}, fmt.Errorf("failed to prepare expressions: %w", err)
	}

	for _, stmt := range passage.Execute {
		if err := scope.Exec(stmt); err != nil {
			return domain.Output{}, fmt.Errorf("passage %s: %w", passage.ID, err)
		}
	}

	out, err := e.render(passage, scope)
	if err != nil {
		return domain.Output{}, err
	}

	if len(passage.Execute) > 0 {
		vars, err := scope.Snapshot()
		if err != nil {
			return domain.Output{}, fmt.Errorf("passage %s: %w", passage.ID, err)
		}
		e.replaceState(vars)
	}

	e.currentID = passage.ID
	e.logger.Debug("passage entered", "passage_id", passage.ID, "choices", len(out.Choices))
	e.emitPassageEnter(ctx, out)
	return out, nil
}

// Choose follows the visible choice at index. Visibility is evaluated against the current state.
func (e *Engine) Choose(ctx context.Context, index int) (domain.Output, error) {
	if err := ctx.Err(); err != nil {
		return domain.Output{}, err
	}

	passage, err := e.passage(e.currentID)
	if err != nil {
		return domain.Output{}, err
	}

	scope, err := e.newScope(e.state)
	if err != nil {
		return domain.Output{}, fmt.Errorf("failed to prepare expressions: %w", err)
	}

	visible := e.visibleChoices(passage, scope)
	if index < 0 || index >= len(visible) {
		return domain.Output{}, fmt.Errorf("%w: %d (passage %s has %d choices)", domain.ErrChoiceOutOfRange, index, passage.ID, len(visible))
	}

	e.logger.Debug("choice taken", "passage_id", passage.ID, "index", index, "target", visible[index].Target)
	return e.Goto(ctx, visible[index].Target)
}

// replaceState rewrites the live state in place so references held by callers stay valid.
func (e *Engine) replaceState(vars map[string]any) {
	for k := range e.state {
		if _, ok := vars[k]; !ok {
			delete(e.state, k)
		}
	}
	for k, v := range vars {
		e.state[k] = v
	}
}
