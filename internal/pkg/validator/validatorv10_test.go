package validator

import (
	"errors"
	"testing"
)

type contactPayload struct {
	FullName    string `validate:"required,notblank,max=100"`
	Email       string `validate:"required,emaillike"`
	BackupEmail string `validate:"omitempty,emaillike"`
}

func TestValidatePasses(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	err = v.Validate(contactPayload{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
	})
	if err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateRejectsMissingAtSign(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	err = v.Validate(contactPayload{
		FullName: "Ada Lovelace",
		Email:    "ada.example.com",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var fields V10ValidationError
	if !errors.As(err, &fields) {
		t.Fatalf("expected V10ValidationError, got %T", err)
	}
	if _, ok := fields.Values()["email"]; !ok {
		t.Fatalf("expected snake_case email key, got %v", fields.Values())
	}
}

func TestValidateRejectsBlankName(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	err = v.Validate(contactPayload{
		FullName: "   ",
		Email:    "ada@example.com",
	})
	if err == nil {
		t.Fatal("expected validation error for blank name")
	}
}

func TestValidateOmitemptyBackupEmail(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	if err := v.Validate(contactPayload{FullName: "Ada", Email: "a@b.co"}); err != nil {
		t.Fatalf("empty backup email must be allowed: %v", err)
	}

	if err := v.Validate(contactPayload{FullName: "Ada", Email: "a@b.co", BackupEmail: "broken"}); err == nil {
		t.Fatal("present backup email must contain @")
	}
}
