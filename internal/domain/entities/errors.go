package entities

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName        = errors.New("invalid package name")
	ErrInvalidVersion     = errors.New("invalid version")
	ErrInvalidSpecifier   = errors.New("invalid version specifier")
	ErrInvalidMarker      = errors.New("invalid environment marker")
	ErrMissingIncludePath = errors.New("include directive without a path")
	ErrLineContinuation   = errors.New("line continuation is not supported")
	ErrIncludeCycle       = errors.New("include cycle")
	ErrProjectNotFound    = errors.New("project not found on the package index")
)

// ParseError locates a syntax problem inside a manifest.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		location = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Column > 0 {
		location = fmt.Sprintf("%s:%d", location, e.Column)
	}
	return fmt.Sprintf("%s: %v", location, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
