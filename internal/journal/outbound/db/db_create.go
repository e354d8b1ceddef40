package db

import (
	"context"

	"github.com/prasetyoadi/rolodex/internal/journal/entity"
)

func (s *DB) CreateEntry(ctx context.Context, in entity.CreateEntry) (err error) {
	ctx, span := s.startSpan(ctx, "CreateEntry")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO journal_entries (id, contact_id, action, payload)
		VALUES ($1, $2, $3, $4)`

	_, err = s.conn.Exec(ctx, query, in.ID, in.ContactID, int16(in.Action), in.Payload)
	return s.mapError(err)
}
