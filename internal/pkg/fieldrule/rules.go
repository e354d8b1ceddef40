package fieldrule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// NotBlank rejects values that are empty after trimming whitespace.
//
// The accepted value is the trimmed input.
func NotBlank(_ context.Context, _, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", errors.New("must not be blank")
	}
	return v, nil
}

// EmailLike rejects values without an "@" character.
//
// This is deliberately the simple check, not full RFC 5322 parsing;
// deliverability is only ever proven by sending a message.
func EmailLike(_ context.Context, field, value string) (string, error) {
	if !strings.Contains(value, "@") {
		return "", &RuleError{Field: field, Message: "failed simple email validation"}
	}
	return value, nil
}

// Lowercase normalizes the value to lower case. It never rejects.
func Lowercase(_ context.Context, _, value string) (string, error) {
	return strings.ToLower(value), nil
}

// MaxRunes rejects values longer than n runes.
func MaxRunes(n int) Func {
	return func(_ context.Context, field string, value string) (string, error) {
		if utf8.RuneCountInString(value) > n {
			return "", &RuleError{Field: field, Message: fmt.Sprintf("must be at most %d characters", n)}
		}
		return value, nil
	}
}

// Optional wraps fn so that blank values pass through as empty strings.
//
// Useful for fields like a backup email that may be omitted but must
// satisfy fn when present.
func Optional(fn Func) Func {
	return func(ctx context.Context, field, value string) (string, error) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return fn(ctx, field, value)
	}
}
