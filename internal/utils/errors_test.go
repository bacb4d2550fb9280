package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorKind_Status(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("%s.Status() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("create review: %w", ConflictError("You have already reviewed this movie"))
	if KindOf(err) != KindConflict {
		t.Errorf("KindOf = %v, want conflict", KindOf(err))
	}
	if !IsConflict(err) {
		t.Error("IsConflict should see through wrapping")
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("plain errors are internal")
	}
	if IsNotFound(nil) {
		t.Error("nil is not a not-found error")
	}
}

func TestAppError_Details(t *testing.T) {
	err := ValidationError("Invalid %s ids", "person").WithDetail("missing", []int64{4, 9})
	if err.Message != "Invalid person ids" {
		t.Errorf("Message = %q", err.Message)
	}
	if got, ok := err.Details["missing"].([]int64); !ok || len(got) != 2 {
		t.Errorf("Details = %v", err.Details)
	}
}

func TestInternalError_KeepsMessage(t *testing.T) {
	base := errors.New("connection refused")
	err := InternalError(base)
	if err.Message != "connection refused" {
		t.Errorf("Message = %q", err.Message)
	}
	if !errors.Is(err, base) {
		t.Error("InternalError should unwrap to the cause")
	}
}
