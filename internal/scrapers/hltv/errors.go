package hltv

import (
	"errors"
	"fmt"
)

// ErrPageStructure is matched by every StructureError.
var ErrPageStructure = errors.New("page structure changed")

// StructureError means an element the parser relies on is missing from the page.
type StructureError struct {
	Selector string
	// Attr is set when the element exists but lacks the attribute.
	Attr string
}

func (e *StructureError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("%s: element %q has no %q attribute", ErrPageStructure, e.Selector, e.Attr)
	}
	return fmt.Sprintf("%s: no element matches %q", ErrPageStructure, e.Selector)
}

func (e *StructureError) Unwrap() error {
	return ErrPageStructure
}

// FieldError means an element was found but its value could not be converted.
type FieldError struct {
	Selector string
	Value    string
	Err      error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("parse %q from %q: %s", e.Value, e.Selector, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the ranking page does not respond with 200 OK.
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Url, e.StatusCode)
}
