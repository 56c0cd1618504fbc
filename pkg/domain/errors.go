package domain

import "errors"

// ErrPassageNotFound is returned when navigation targets an unknown passage.
var ErrPassageNotFound = errors.New("passage not found")

// ErrChoiceOutOfRange is returned when a choice index does not match a visible choice.
var ErrChoiceOutOfRange = errors.New("choice index out of range")

// ErrNoPassages is returned when a story document defines no passages.
var ErrNoPassages = errors.New("story has no passages")
