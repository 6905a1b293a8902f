package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "date format", err: &FormatError{Line: 3, Field: "date_updated", Value: "x", Reason: "invalid date"}, wantCode: "VAL001"},
		{name: "price format", err: &FormatError{Field: "product_price", Value: "12.5.0", Reason: "invalid price"}, wantCode: "VAL002"},
		{name: "quantity format", err: &FormatError{Field: "product_quantity", Value: "-1", Reason: "invalid quantity"}, wantCode: "VAL003"},
		{name: "missing column", err: errors.New("invalid csv header: missing required column \"product_price\""), wantCode: "VAL004"},
		{name: "empty name", err: &FormatError{Field: "product_name", Reason: "empty name"}, wantCode: "VAL005"},
		{name: "not found", err: NotFoundByID(9999), wantCode: "PRD001"},
		{name: "duplicate", err: &DuplicateKeyError{Name: "Widget"}, wantCode: "PRD002"},
		{name: "bolt lock timeout", err: &PersistenceError{Op: "open", Err: errors.New("timeout")}, wantCode: "DB001"},
		{name: "connection refused", err: &PersistenceError{Op: "connect", Err: errors.New("dial tcp: connection refused")}, wantCode: "DB002"},
		{name: "generic persistence", err: &PersistenceError{Op: "upsert", Err: errors.New("disk full")}, wantCode: "DB003"},
		{name: "permission denied", err: fmt.Errorf("write backup: %w", errors.New("open x.csv: permission denied")), wantCode: "FILE003"},
		{name: "wrapped keeps pattern", err: fmt.Errorf("view product: %w", NotFoundByID(1)), wantCode: "PRD001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
		{name: "case insensitive matching", err: errors.New("INVALID PRICE"), wantCode: "VAL002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(NotFoundByID(42))
	if !strings.Contains(got, "(Code: PRD001)") {
		t.Errorf("FormatUserError() = %q, want code PRD001", got)
	}
	if !strings.HasPrefix(got, "That product does not exist") {
		t.Errorf("FormatUserError() = %q, want message first", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true, want false")
	}
	if !IsUserFacing(&DuplicateKeyError{Name: "x"}) {
		t.Error("IsUserFacing(duplicate) = false, want true")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("IsUserFacing(unknown) = true, want false")
	}
}

func TestTypedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"format", &FormatError{Reason: "invalid price"}, ErrFormat},
		{"duplicate", &DuplicateKeyError{Name: "Widget"}, ErrDuplicateKey},
		{"not found by id", NotFoundByID(1), ErrNotFound},
		{"not found by name", NotFoundByName("Widget"), ErrNotFound},
		{"persistence", &PersistenceError{Op: "get", Err: errors.New("io")}, ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			for _, other := range []error{ErrFormat, ErrDuplicateKey, ErrNotFound, ErrPersistence} {
				if other != tt.sentinel && errors.Is(tt.err, other) {
					t.Errorf("errors.Is(%v, %v) = true, want false", tt.err, other)
				}
			}
		})
	}
}

func TestPersistence(t *testing.T) {
	if Persistence("op", nil) != nil {
		t.Error("Persistence(nil) != nil")
	}

	nf := NotFoundByID(3)
	if got := Persistence("get", nf); got != nf {
		t.Errorf("Persistence(not found) = %v, want unchanged", got)
	}

	io := errors.New("read failed")
	got := Persistence("list", io)
	var pe *PersistenceError
	if !errors.As(got, &pe) {
		t.Fatalf("Persistence() = %T, want *PersistenceError", got)
	}
	if pe.Op != "list" || !errors.Is(got, io) {
		t.Errorf("Persistence() = %+v, want op list wrapping cause", pe)
	}
}

func TestFormatError_Message(t *testing.T) {
	err := &FormatError{Line: 4, Field: "product_price", Value: "abc", Reason: "invalid price"}
	if got, want := err.Error(), `line 4: invalid price: product_price "abc"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
