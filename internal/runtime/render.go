package runtime

import (
	"fmt"

	"github.com/aretw0/quill/pkg/domain"
)

// render interpolates passage content and filters choices by their conditions.
func (e *Engine) render(passage domain.Passage, scope Scope) (domain.Output, error) {
	content, err := scope.Interpolate(passage.Content)
	if err != nil {
		return domain.Output{}, fmt.Errorf("rendering passage %s failed: %w", passage.ID, err)
	}

	return domain.Output{
		Content:   content,
		Choices:   e.visibleChoices(passage, scope),
		PassageID: passage.ID,
	}, nil
}

// visibleChoices keeps the authored order and drops choices whose condition is false.
// A condition that fails to evaluate hides the choice.
func (e *Engine) visibleChoices(passage domain.Passage, scope Scope) []domain.Choice {
	choices := make([]domain.Choice, 0, len(passage.Choices))
	for _, c := range passage.Choices {
		if c.Condition != "" {
			ok, err := scope.Truthy(c.Condition)
			if err != nil {
				e.logger.Warn("choice condition failed", "passage_id", passage.ID, "target", c.Target, "condition", c.Condition, "error", err)
				continue
			}
			if !ok {
				continue
			}
		}

		text := c.Text
		if interpolated, err := scope.Interpolate(c.Text); err == nil {
			text = interpolated
		} else {
			e.logger.Warn("choice text interpolation failed", "passage_id", passage.ID, "target", c.Target, "error", err)
		}
		choices = append(choices, domain.Choice{Text: text, Target: c.Target})
	}
	return choices
}
