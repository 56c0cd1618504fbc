package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Command type tags.
const (
	TypePreview = "preview"
	TypeChoice  = "choice"
	TypeCurrent = "current"
	TypeExit    = "exit"
)

// Command is a decoded protocol line.
// The concrete type is one of Preview, Choice, Current, Exit or Unknown.
type Command interface {
	// Type returns the command tag used for logging and metrics.
	Type() string
}

// Preview navigates to Passage after merging State into the session state.
type Preview struct {
	Passage string
	// RawPassage keeps a truthy passage value that is not a JSON string.
	// The overlay is still merged; navigation then fails with PassageErr.
	RawPassage json.RawMessage
	State      map[string]any
}

// PassageErr reports why the passage value cannot name a passage.
func (p Preview) PassageErr() error {
	if p.RawPassage == nil {
		return nil
	}
	return fmt.Errorf("passage id must be a string, got %s", jsonKind(p.RawPassage))
}

// Choice follows the visible choice at Index.
type Choice struct {
	Index int
}

// Current renders the current passage without navigating.
type Current struct{}

// Exit terminates the command loop. It produces no response.
type Exit struct{}

// Unknown carries an unrecognized "type" value. RawType is nil when the field was absent.
type Unknown struct {
	RawType json.RawMessage
}

func (Preview) Type() string { return TypePreview }
func (Choice) Type() string  { return TypeChoice }
func (Current) Type() string { return TypeCurrent }
func (Exit) Type() string    { return TypeExit }
func (Unknown) Type() string { return "unknown" }

// CommandError is returned by DecodeCommand when a line cannot become a Command.
// Result is the record that must be written back to the caller.
type CommandError struct {
	// Type is the command tag, when the line got far enough to have one.
	Type   string
	Result Result
	Err    error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if r, ok := e.Result.(ErrorResult); ok {
		return r.Kind
	}
	return "invalid command"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func reject(kind string) *CommandError {
	return &CommandError{Result: NewError(kind)}
}

func rejectWith(kind string, err error) *CommandError {
	return &CommandError{Result: NewFailure(kind, err.Error()), Err: err}
}

// DecodeCommand decodes one input line into a Command.
// Lines that are valid JSON but violate the command contract return a *CommandError
// whose Result describes the problem (missing fields, invalid values).
func DecodeCommand(line []byte) (Command, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, rejectWith(KindInvalidJSON, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, rejectWith(KindUnexpected, fmt.Errorf("command must be a JSON object, got %s", jsonKind(raw)))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, rejectWith(KindInvalidJSON, err)
	}

	rawType, ok := fields["type"]
	if !ok {
		return Unknown{}, nil
	}

	var tag string
	if err := json.Unmarshal(rawType, &tag); err != nil {
		return Unknown{RawType: rawType}, nil
	}

	switch tag {
	case TypePreview:
		return tagged(TypePreview)(decodePreview(fields))
	case TypeChoice:
		return tagged(TypeChoice)(decodeChoice(fields))
	case TypeCurrent:
		return Current{}, nil
	case TypeExit:
		return Exit{}, nil
	default:
		return Unknown{RawType: rawType}, nil
	}
}

func tagged(tag string) func(Command, error) (Command, error) {
	return func(cmd Command, err error) (Command, error) {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			cmdErr.Type = tag
		}
		return cmd, err
	}
}

func decodePreview(fields map[string]json.RawMessage) (Command, error) {
	rawPassage := fields["passage"]
	if isFalsy(rawPassage) {
		return nil, reject(KindMissingPassage)
	}

	cmd := Preview{State: map[string]any{}}
	if err := json.Unmarshal(rawPassage, &cmd.Passage); err != nil {
		cmd.RawPassage = bytes.TrimSpace(rawPassage)
	}

	if rawState, ok := fields["state"]; ok && !isNull(rawState) {
		if jsonKind(rawState) != "object" {
			return nil, rejectWith(KindUnexpected, fmt.Errorf("state must be an object, got %s", jsonKind(rawState)))
		}
		if err := json.Unmarshal(rawState, &cmd.State); err != nil {
			return nil, rejectWith(KindUnexpected, err)
		}
	}

	return cmd, nil
}

func decodeChoice(fields map[string]json.RawMessage) (Command, error) {
	rawIndex, ok := fields["index"]
	if !ok || isNull(rawIndex) {
		return nil, reject(KindMissingChoiceIndex)
	}

	if jsonKind(rawIndex) != "number" {
		return nil, rejectWith(KindChoice, fmt.Errorf("choice index must be an integer, got %s", jsonKind(rawIndex)))
	}

	index, err := strconv.Atoi(string(bytes.TrimSpace(rawIndex)))
	if err != nil {
		return nil, rejectWith(KindChoice, fmt.Errorf("choice index must be an integer, got %s", bytes.TrimSpace(rawIndex)))
	}

	return Choice{Index: index}, nil
}

// jsonKind names the JSON type of an already validated raw value.
func jsonKind(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func isNull(raw json.RawMessage) bool {
	return jsonKind(raw) == "null"
}

// isFalsy reports whether a raw value counts as "not provided":
// absent, null, false, zero, or an empty string, array or object.
func isFalsy(raw json.RawMessage) bool {
	if raw == nil {
		return true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
