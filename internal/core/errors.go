package core

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinels for errors.Is. Every typed error below matches exactly one.
var (
	ErrFormat       = errors.New("invalid format")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("product not found")
	ErrPersistence  = errors.New("persistence failure")
)

// FormatError reports malformed money, date, quantity or name input.
type FormatError struct {
	Line   int    // CSV line number, 0 when not from a file
	Field  string // Column name
	Value  string // Offending raw value
	Reason string // Starts with the pattern used by MapError ("invalid price", ...)
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s %q", e.Reason, e.Field, e.Value)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// DuplicateKeyError is returned by Store.Create when the name is taken.
type DuplicateKeyError struct {
	Name string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: product %q already exists", e.Name)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// NotFoundError is returned by lookups with no live match.
type NotFoundError struct {
	Key   string // "id" or "name"
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s %s", e.Key, e.Value)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps an I/O failure of the durable medium.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotFoundByID builds the NotFoundError for an id lookup.
func NotFoundByID(id int64) error {
	return &NotFoundError{Key: "id", Value: itoa(id)}
}

// NotFoundByName builds the NotFoundError for a name lookup.
func NotFoundByName(name string) error {
	return &NotFoundError{Key: "name", Value: strconv.Quote(name)}
}

// Persistence wraps err as a PersistenceError, or returns nil.
// Errors that already carry a core type pass through unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrFormat) || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
