package protocol

import (
	"encoding/json"

	"github.com/aretw0/quill/pkg/domain"
)

// Error kinds written in the "error" field of error records.
const (
	KindNoStory            = "No story data provided"
	KindInvalidStoryJSON   = "Invalid story JSON"
	KindEngineInit         = "Engine initialization failed"
	KindInvalidJSON        = "Invalid JSON"
	KindMissingPassage     = "Missing passage ID"
	KindMissingChoiceIndex = "Missing choice index"
	KindEngine             = "Engine error"
	KindChoice             = "Choice error"
	KindUnknownCommand     = "Unknown command type"
	KindUnexpected         = "Unexpected error"
	KindFatal              = "Fatal error"
)

// StatusReady is the value of the ready signal.
const StatusReady = "ready"

// Result is a record written to the output stream.
// The concrete type is one of ReadyResult, PassageResult, ErrorResult,
// DetailedErrorResult or UnknownCommandResult.
type Result interface {
	result()
}

// ReadyResult is emitted exactly once, after a successful startup.
type ReadyResult struct {
	Status string `json:"status"`
}

// Ready returns the ready signal.
func Ready() ReadyResult {
	return ReadyResult{Status: StatusReady}
}

// PassageResult is the success record of a navigation or query.
type PassageResult struct {
	Content    string          `json:"content"`
	Choices    []domain.Choice `json:"choices"`
	PassageID  string          `json:"passage_id"`
	HasChoices bool            `json:"has_choices"`
}

// NewPassageResult serializes an engine Output.
// Choices keep the engine's order; a nil slice is written as an empty array.
func NewPassageResult(out domain.Output) PassageResult {
	choices := out.Choices
	if choices == nil {
		choices = []domain.Choice{}
	}
	return PassageResult{
		Content:    out.Content,
		Choices:    choices,
		PassageID:  out.PassageID,
		HasChoices: len(choices) > 0,
	}
}

// ErrorResult is an error record carrying only its kind.
type ErrorResult struct {
	Kind string `json:"error"`
}

// NewError creates an error record without a message.
func NewError(kind string) ErrorResult {
	return ErrorResult{Kind: kind}
}

// DetailedErrorResult is an error record with a human-readable message.
// Traceback is only set for engine initialization failures.
type DetailedErrorResult struct {
	Kind      string `json:"error"`
	Message   string `json:"message"`
	Traceback string `json:"traceback,omitempty"`
}

// NewFailure creates an error record with a message.
func NewFailure(kind, message string) DetailedErrorResult {
	return DetailedErrorResult{Kind: kind, Message: message}
}

// UnknownCommandResult echoes the unrecognized "type" value back to the caller.
// A nil Type is written as null.
type UnknownCommandResult struct {
	Kind string          `json:"error"`
	Type json.RawMessage `json:"type"`
}

// NewUnknownCommand creates the record for an unrecognized command type.
func NewUnknownCommand(rawType json.RawMessage) UnknownCommandResult {
	return UnknownCommandResult{Kind: KindUnknownCommand, Type: rawType}
}

func (ReadyResult) result()          {}
func (PassageResult) result()        {}
func (ErrorResult) result()          {}
func (DetailedErrorResult) result()  {}
func (UnknownCommandResult) result() {}
