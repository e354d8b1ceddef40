// Package db persists directory contacts in PostgreSQL.
//
// The schema carries its own guardrails next to the application rules:
//
//	directory_contacts.email       UNIQUE
//	directory_contacts.email       CHECK (position('@' in email) > 0)
//	directory_contacts.backup_email CHECK (backup_email IS NULL OR position('@' in backup_email) > 0)
//
// Rows that slip past the field callbacks (another client, a manual insert)
// still bounce off these constraints, and mapError translates the PG codes
// back into the application error vocabulary.
package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn: conn,
		ins:  ins,
	}
}

// - 23505 unique_violation → goerror.ErrConflict
// - 23514 check_violation → goerror.ErrInvalid
// - 23502 not_null_violation → goerror.ErrInvalid
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return goerror.ErrConflict
		case "23514", "23502":
			return goerror.ErrInvalid
		}
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("directory.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
