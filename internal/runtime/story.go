package runtime

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var storySchema string

var storySchemaLoader = gojsonschema.NewStringLoader(storySchema)

// StoryError represents a story document the engine cannot run.
type StoryError struct {
	Err error
}

func (e *StoryError) Error() string {
	return fmt.Sprintf("invalid story: %v", e.Err)
}

func (e *StoryError) Unwrap() error {
	return e.Err
}

// SchemaError lists the violations of the story document schema.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation errors: %s", strings.Join(e.Violations, "; "))
}

// DecodeStory validates a raw story document (as decoded from JSON) and converts it
// into a domain.Story. Passage ids are taken from the keys of the "passages" object.
func DecodeStory(doc any) (domain.Story, error) {
	if doc == nil {
		return domain.Story{}, &StoryError{Err: domain.ErrNoPassages}
	}

	result, err := gojsonschema.Validate(storySchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return domain.Story{}, &StoryError{Err: fmt.Errorf("schema check failed: %w", err)}
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, v := range result.Errors() {
			violations = append(violations, v.String())
		}
		return domain.Story{}, &StoryError{Err: &SchemaError{Violations: violations}}
	}

	var story domain.Story
	if err := mapstructure.Decode(doc, &story); err != nil {
		return domain.Story{}, &StoryError{Err: fmt.Errorf("failed to decode story: %w", err)}
	}
	if len(story.Passages) == 0 {
		return domain.Story{}, &StoryError{Err: domain.ErrNoPassages}
	}

	for id, p := range story.Passages {
		p.ID = id
		story.Passages[id] = p
	}
	return story, nil
}

// resolveEntry picks the first passage to show: the explicit override, then the
// story's declared initial passage, then "start", "Start" or the only passage.
func resolveEntry(story domain.Story, override string) (string, error) {
	id := override
	if id == "" {
		id = story.InitialPassage
	}
	if id != "" {
		if _, ok := story.Passages[id]; !ok {
			return "", fmt.Errorf("initial passage %q: %w", id, domain.ErrPassageNotFound)
		}
		return id, nil
	}

	for _, candidate := range []string{domain.DefaultInitialPassage, "Start"} {
		if _, ok := story.Passages[candidate]; ok {
			return candidate, nil
		}
	}
	if len(story.Passages) == 1 {
		for only := range story.Passages {
			return only, nil
		}
	}
	return "", fmt.Errorf("initial passage %q: %w", domain.DefaultInitialPassage, domain.ErrPassageNotFound)
}
