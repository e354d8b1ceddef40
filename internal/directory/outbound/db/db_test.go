package db

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
)

func TestMapError(t *testing.T) {
	s := NewDB(nil, instrument.NewNoop())

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil passes through", in: nil, want: nil},
		{name: "no rows is not found", in: pgx.ErrNoRows, want: goerror.ErrNotFound},
		{name: "unique violation is conflict", in: &pgconn.PgError{Code: "23505"}, want: goerror.ErrConflict},
		{name: "check violation is invalid", in: &pgconn.PgError{Code: "23514"}, want: goerror.ErrInvalid},
		{name: "not null violation is invalid", in: &pgconn.PgError{Code: "23502"}, want: goerror.ErrInvalid},
		{name: "wrapped pg error still maps", in: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), want: goerror.ErrConflict},
		{name: "other errors pass through", in: io.ErrUnexpectedEOF, want: io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.mapError(tt.in)
			if !errors.Is(got, tt.want) {
				t.Fatalf("mapError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
