package entity

import (
	"context"
	"errors"
	"testing"

	"github.com/prasetyoadi/rolodex/internal/pkg/fieldrule"
)

func TestContactRulesAcceptAndNormalize(t *testing.T) {
	rules := ContactRules()

	out, err := rules.ApplyAll(context.Background(), map[string]string{
		FieldFullName:    "  Ada Lovelace ",
		FieldEmail:       "Ada@Example.COM",
		FieldBackupEmail: "Backup@Example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[FieldFullName] != "Ada Lovelace" {
		t.Fatalf("expected trimmed name, got %q", out[FieldFullName])
	}
	if out[FieldEmail] != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %q", out[FieldEmail])
	}
	if out[FieldBackupEmail] != "backup@example.com" {
		t.Fatalf("expected lowercased backup email, got %q", out[FieldBackupEmail])
	}
}

func TestContactRulesRejectMissingAtOnBothAddressFields(t *testing.T) {
	rules := ContactRules()

	_, err := rules.ApplyAll(context.Background(), map[string]string{
		FieldFullName:    "Ada Lovelace",
		FieldEmail:       "ada.example.com",
		FieldBackupEmail: "backup.example.com",
	})
	if err == nil {
		t.Fatal("expected rejection")
	}

	var errs fieldrule.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected fieldrule.Errors, got %T", err)
	}

	fields := errs.Fields()
	if _, ok := fields[FieldEmail]; !ok {
		t.Fatalf("expected email failure, got %v", fields)
	}
	if _, ok := fields[FieldBackupEmail]; !ok {
		t.Fatalf("expected backup_email failure, got %v", fields)
	}
}

func TestContactRulesAllowBlankBackupEmail(t *testing.T) {
	rules := ContactRules()

	out, err := rules.ApplyAll(context.Background(), map[string]string{
		FieldFullName:    "Ada Lovelace",
		FieldEmail:       "ada@example.com",
		FieldBackupEmail: "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[FieldBackupEmail] != "" {
		t.Fatalf("expected empty backup email, got %q", out[FieldBackupEmail])
	}
}

func TestContactRulesRejectBlankName(t *testing.T) {
	rules := ContactRules()

	if _, err := rules.Apply(context.Background(), FieldFullName, "   "); err == nil {
		t.Fatal("expected blank name rejection")
	}
}

func TestContactStatusEnsure(t *testing.T) {
	if got := ContactStatus(99).Ensure(); got != ContactStatusUnknown {
		t.Fatalf("expected unknown, got %v", got)
	}
	if got := ContactStatusVerified.Ensure(); got != ContactStatusVerified {
		t.Fatalf("expected verified, got %v", got)
	}
}

func TestParseSafeContactStatuses(t *testing.T) {
	got := ParseSafeContactStatuses([]string{"1", "2", "2", "abc", "42"})
	if len(got) != 2 || got[0] != ContactStatusPending || got[1] != ContactStatusVerified {
		t.Fatalf("unexpected statuses: %v", got)
	}
}
