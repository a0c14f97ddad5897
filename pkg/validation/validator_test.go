package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestToDetailsValidationErrors(t *testing.T) {
	v := validator.New()
	type body struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name" validate:"required"`
	}

	err := v.Struct(body{Email: "not-an-email"})
	details := ToDetails(err)
	if len(details) != 2 {
		t.Fatalf("expected 2 field errors, got %v", details)
	}
	if details["Email"] != "must be a valid email" {
		t.Fatalf("unexpected email message: %q", details["Email"])
	}
	if details["Name"] != "is required" {
		t.Fatalf("unexpected name message: %q", details["Name"])
	}
}

func TestToDetailsNil(t *testing.T) {
	if d := ToDetails(nil); d != nil {
		t.Fatalf("expected nil, got %v", d)
	}
}

func TestToDetailsUnknownError(t *testing.T) {
	d := ToDetails(errUnknown{})
	if d["payload"] != "invalid payload" {
		t.Fatalf("expected fallback message, got %v", d)
	}
}

type errUnknown struct{}

func (errUnknown) Error() string { return "boom" }
