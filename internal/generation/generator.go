// Package generation turns raw story input into a content bundle, either
// through a language model or from local templates.
package generation

import (
	"context"
	"errors"
	"fmt"

	"newsdesk/internal/content"
)

var (
	// ErrInvalidContent marks malformed or schema-invalid upstream output.
	ErrInvalidContent = errors.New("invalid upstream content")
	// ErrTransport marks a failed call to the upstream model.
	ErrTransport = errors.New("upstream transport failure")
)

// Generator produces a bundle for input. A non-empty section asks for only
// that part; the other fields of the result are then unspecified.
type Generator interface {
	Generate(ctx context.Context, input string, typ content.InputType, section content.Section) (content.Bundle, error)
}

// Error classifies a generation failure. errors.Is matches its Kind.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

func invalid(err error) error   { return &Error{Kind: ErrInvalidContent, Err: err} }
func transport(err error) error { return &Error{Kind: ErrTransport, Err: err} }

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, input string, typ content.InputType, section content.Section) (content.Bundle, error)

func (f GeneratorFunc) Generate(ctx context.Context, input string, typ content.InputType, section content.Section) (content.Bundle, error) {
	return f(ctx, input, typ, section)
}
