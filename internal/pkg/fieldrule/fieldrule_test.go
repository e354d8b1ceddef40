package fieldrule

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestApplyUnboundFieldPassesUnchanged(t *testing.T) {
	s := NewSet()

	got, err := s.Apply(context.Background(), "nickname", "  AnyThing  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "  AnyThing  " {
		t.Fatalf("expected value unchanged, got %q", got)
	}
}

func TestApplyRunsCallbacksInRegistrationOrder(t *testing.T) {
	s := NewSet()
	s.Bind(NotBlank, "email")
	s.Bind(Lowercase, "email")
	s.Bind(EmailLike, "email")

	got, err := s.Apply(context.Background(), "email", "  Someone@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "someone@example.com" {
		t.Fatalf("expected normalized chain output, got %q", got)
	}
}

func TestApplyStopsChainOnFirstRejection(t *testing.T) {
	s := NewSet()
	s.Bind(EmailLike, "email")

	called := false
	s.Bind(func(_ context.Context, _, v string) (string, error) {
		called = true
		return v, nil
	}, "email")

	_, err := s.Apply(context.Background(), "email", "not-an-address")
	if err == nil {
		t.Fatal("expected rejection")
	}
	if called {
		t.Fatal("callback after rejection must not run")
	}

	var re *RuleError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RuleError, got %T", err)
	}
	if re.Field != "email" {
		t.Fatalf("expected field email, got %q", re.Field)
	}
}

func TestBindMultipleFieldsSharesCallback(t *testing.T) {
	s := NewSet()
	s.Bind(EmailLike, "email", "backup_email")

	for _, field := range []string{"email", "backup_email"} {
		if _, err := s.Apply(context.Background(), field, "nope"); err == nil {
			t.Fatalf("expected rejection for %s", field)
		}
		if got, err := s.Apply(context.Background(), field, "a@b"); err != nil || got != "a@b" {
			t.Fatalf("expected pass for %s, got %q err %v", field, got, err)
		}
	}
}

func TestApplyAllCollectsAllFailures(t *testing.T) {
	s := NewSet()
	s.Bind(NotBlank, "full_name")
	s.Bind(EmailLike, "email", "backup_email")

	_, err := s.ApplyAll(context.Background(), map[string]string{
		"full_name":    "   ",
		"email":        "missing-at",
		"backup_email": "ok@example.com",
	})
	if err == nil {
		t.Fatal("expected failures")
	}

	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected Errors, got %T", err)
	}

	fields := errs.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 failing fields, got %v", fields)
	}
	if _, ok := fields["full_name"]; !ok {
		t.Fatalf("expected full_name failure, got %v", fields)
	}
	if !strings.Contains(fields["email"], "email validation") {
		t.Fatalf("expected email message, got %q", fields["email"])
	}
}

func TestApplyAllReturnsAcceptedValues(t *testing.T) {
	s := NewSet()
	s.Bind(NotBlank, "email")
	s.Bind(Lowercase, "email")
	s.Bind(EmailLike, "email")

	out, err := s.ApplyAll(context.Background(), map[string]string{"email": " A@B.Co "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["email"] != "a@b.co" {
		t.Fatalf("expected normalized value, got %q", out["email"])
	}
}
