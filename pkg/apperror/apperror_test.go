package apperror

import (
	"errors"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(Conflict, "already exists")
	if KindOf(err) != Conflict {
		t.Errorf("KindOf = %v, want Conflict", KindOf(err))
	}

	wrapped := Wrap(Store, "storage failure", errors.New("connection refused"))
	if KindOf(wrapped) != Store {
		t.Errorf("KindOf wrapped = %v, want Store", KindOf(wrapped))
	}

	if KindOf(errors.New("plain")) != Unknown {
		t.Error("plain errors should report Unknown")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{InvalidInput, http.StatusBadRequest},
		{InvalidState, http.StatusUnprocessableEntity},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Store, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(New(tc.kind, "x")); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}

	if got := HTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("HTTPStatus(plain) = %d, want 500", got)
	}
}

func TestPublicMasksStoreErrors(t *testing.T) {
	visible := New(InvalidState, "cannot update submitted appraisal")
	if Public(visible) != "cannot update submitted appraisal" {
		t.Errorf("Public = %q", Public(visible))
	}

	masked := Wrap(Store, "storage failure", errors.New("dsn leak"))
	if Public(masked) != "internal server error" {
		t.Errorf("Public store error = %q, want masked message", Public(masked))
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(NotFound, "faculty not found", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should match errors.Is")
	}
	if !errors.Is(err, New(NotFound, "anything")) {
		t.Error("kinded errors should match by kind")
	}
	if errors.Is(err, New(Conflict, "anything")) {
		t.Error("different kinds should not match")
	}
}
