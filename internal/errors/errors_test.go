package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		kind    Kind
		message string
	}{
		{"NotFound", NotFound("wheel not found"), ErrNotFound, "wheel not found"},
		{"NotFoundf", NotFoundf("wheel %s not found", "w1"), ErrNotFound, "wheel w1 not found"},
		{"Validation", Validation("label is required"), ErrValidation, "label is required"},
		{"Validationf", Validationf("weight must be between %d and %d", 1, 100), ErrValidation, "weight must be between 1 and 100"},
		{"Conflict", Conflict("already spinning"), ErrConflict, "already spinning"},
		{"InvalidInput", InvalidInput("bad body"), ErrInvalidInput, "bad body"},
		{"InvalidInputf", InvalidInputf("bad %s", "id"), ErrInvalidInput, "bad id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected no underlying error, got %v", tt.err.Err)
			}
			if tt.err.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.message)
			}
		})
	}
}

func TestInternal(t *testing.T) {
	underlying := errors.New("disk full")
	err := Internal(underlying)

	if err.Kind != ErrInternal {
		t.Errorf("expected ErrInternal, got %v", err.Kind)
	}
	if err.Error() != "internal error: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find the underlying error")
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("min greater than max")
	err := Wrap(underlying, ErrValidation, "invalid number range")

	if err.Error() != "invalid number range: min greater than max" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Error("expected wrapped error to be reachable")
	}

	err = Wrapf(underlying, ErrValidation, "draw %d failed", 3)
	if err.Message != "draw 3 failed" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain error", errors.New("boom"), ErrInternal},
		{"nil", nil, ErrInternal},
		{"direct", NotFound("x"), ErrNotFound},
		{"wrapped by fmt", fmt.Errorf("context: %w", Validation("bad")), ErrValidation},
		{"outermost wins", Wrap(NotFound("inner"), ErrConflict, "outer"), ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	if IsKind(nil, ErrInternal) {
		t.Error("nil should not match any kind")
	}
	if !IsKind(NotFound("x"), ErrNotFound) {
		t.Error("expected not found kind")
	}
	if IsKind(NotFound("x"), ErrValidation) {
		t.Error("did not expect validation kind")
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		ErrInternal:     "internal",
		ErrNotFound:     "not_found",
		ErrValidation:   "validation",
		ErrConflict:     "conflict",
		ErrInvalidInput: "invalid_input",
		Kind(99):        "internal",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
