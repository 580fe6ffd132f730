package validator

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fields map[string]string

func (f fields) Validate() map[string]string { return f }

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate(fields(nil)); err != nil {
		t.Errorf("nil fields: got %v, want nil", err)
	}
	if err := Validate(fields{}); err != nil {
		t.Errorf("empty fields: got %v, want nil", err)
	}

	want := fields{"icon": "required"}
	err := Validate(want)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if err.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", err.StatusCode)
	}
	if diff := cmp.Diff(map[string]string(want), err.Validation.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
