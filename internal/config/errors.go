package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checking via errors.Is.
var (
	ErrMissingArgument      = errors.New("missing argument")
	ErrInvalidValue         = errors.New("invalid value")
	ErrUnrecognizedArgument = errors.New("unrecognized argument")
	ErrFileNotFound         = errors.New("file not found")
)

// Kind classifies a configuration failure.
type Kind int

const (
	KindMissingArgument Kind = iota
	KindInvalidValue
	KindUnrecognizedArgument
	KindFileNotFound
)

func (k Kind) sentinel() error {
	switch k {
	case KindMissingArgument:
		return ErrMissingArgument
	case KindInvalidValue:
		return ErrInvalidValue
	case KindUnrecognizedArgument:
		return ErrUnrecognizedArgument
	case KindFileNotFound:
		return ErrFileNotFound
	default:
		return errors.New("config error")
	}
}

// Error describes why an argument set could not become a TallyConfig.
// It unwraps to the sentinel for its Kind.
type Error struct {
	Kind  Kind
	Field string // option or positional name, if known
	Value string // raw token(s) or path
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := e.Kind.sentinel().Error()
	switch e.Kind {
	case KindFileNotFound:
		return fmt.Sprintf("%s: %q", base, e.Value)
	case KindInvalidValue:
		return fmt.Sprintf("%s for %s: %q", base, e.Field, e.Value)
	case KindUnrecognizedArgument:
		return fmt.Sprintf("%s: %s", base, e.Value)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", base, e.Field)
	}
	return base
}

func (e *Error) Unwrap() error { return e.Kind.sentinel() }

func missing(field string) error {
	return &Error{Kind: KindMissingArgument, Field: field}
}

func invalid(field, raw string) error {
	return &Error{Kind: KindInvalidValue, Field: field, Value: raw}
}

func unrecognized(raw string) error {
	return &Error{Kind: KindUnrecognizedArgument, Value: raw}
}

func notFound(path string) error {
	return &Error{Kind: KindFileNotFound, Value: path}
}
