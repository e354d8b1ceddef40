package fieldrule

import (
	"context"
	"testing"
)

func TestNotBlank(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "value", want: "value"},
		{in: "  padded  ", want: "padded"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "\t\n", wantErr: true},
	}

	for _, c := range cases {
		got, err := NotBlank(context.Background(), "field", c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("NotBlank(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NotBlank(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("NotBlank(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEmailLike(t *testing.T) {
	if _, err := EmailLike(context.Background(), "email", "plainaddress"); err == nil {
		t.Fatal("expected rejection without @")
	}

	got, err := EmailLike(context.Background(), "email", "user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "user@example.com" {
		t.Fatalf("accepted value must pass unchanged, got %q", got)
	}
}

func TestMaxRunes(t *testing.T) {
	fn := MaxRunes(5)

	if _, err := fn(context.Background(), "name", "abcdef"); err == nil {
		t.Fatal("expected rejection over limit")
	}
	if got, err := fn(context.Background(), "name", "héllo"); err != nil || got != "héllo" {
		t.Fatalf("multibyte runes must count as one: got %q err %v", got, err)
	}
}

func TestOptionalSkipsBlank(t *testing.T) {
	fn := Optional(EmailLike)

	got, err := fn(context.Background(), "backup_email", "   ")
	if err != nil {
		t.Fatalf("blank optional value must pass: %v", err)
	}
	if got != "" {
		t.Fatalf("blank optional value must normalize to empty, got %q", got)
	}

	if _, err := fn(context.Background(), "backup_email", "broken"); err == nil {
		t.Fatal("present optional value must still satisfy the rule")
	}
}
