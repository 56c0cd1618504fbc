package runtime

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/quill/pkg/domain"
)

// ValidationError lists the problems found while crawling a story.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("found %d errors:\n- %s", len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// ValidateStory checks for broken choice targets and unreachable passages,
// crawling the graph breadth-first from startID.
func ValidateStory(story domain.Story, startID string) error {
	if _, ok := story.Passages[startID]; !ok {
		return fmt.Errorf("start passage '%s': %w", startID, domain.ErrPassageNotFound)
	}

	visited := map[string]bool{startID: true}
	queue := []string{startID}
	var problems []string

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		for _, c := range story.Passages[currentID].Choices {
			target := c.Target
			if _, ok := story.Passages[target]; !ok {
				problems = append(problems, fmt.Sprintf("Dead link: '%s' -> '%s'", currentID, target))
				continue
			}
			if !visited[target] {
				visited[target] = true
				queue = append(queue, target)
			}
		}
	}

	var unreachable []string
	for id := range story.Passages {
		if !visited[id] {
			unreachable = append(unreachable, id)
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		problems = append(problems, fmt.Sprintf("Unreachable passage: '%s'", id))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
