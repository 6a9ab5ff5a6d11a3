package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
	ErrInvalidDelimiter  = errors.New("invalid delimiter")
)

// identifierPattern accepts table or schema.table made of plain SQL identifiers.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateIdentifier ensures a table name can be placed in a query unquoted.
func validateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// validateDelimiter ensures a CSV delimiter is a single usable rune.
func validateDelimiter(d rune) error {
	switch d {
	case 0, '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}
	return nil
}
