package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/prasetyoadi/rolodex/internal/journal/entity"
)

func (s *DB) GetEntryList(ctx context.Context, filter entity.EntryListFilterData) (_ []entity.Entry, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetEntryList")
	defer func() { s.endSpan(span, err) }()

	var (
		where strings.Builder
		args  []any
	)
	where.WriteString(" WHERE 1=1")
	if filter.IsFilterByContact {
		args = append(args, filter.ContactID)
		fmt.Fprintf(&where, " AND contact_id = $%d", len(args))
	}
	if filter.IsFilterByAction {
		args = append(args, filter.Action)
		fmt.Fprintf(&where, " AND action = $%d", len(args))
	}
	if filter.IsFilterByFrom {
		args = append(args, filter.From)
		fmt.Fprintf(&where, " AND created_at >= $%d", len(args))
	}
	if filter.IsFilterByTo {
		args = append(args, filter.To)
		fmt.Fprintf(&where, " AND created_at < $%d", len(args))
	}

	listArgs := append(args, filter.Size, filter.Page)
	query := fmt.Sprintf(
		`SELECT id, contact_id, action, payload, created_at FROM journal_entries%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where.String(), len(listArgs)-1, len(listArgs),
	)

	rows, err := s.conn.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	entries := make([]entity.Entry, 0, filter.Size)
	for rows.Next() {
		var (
			e      entity.Entry
			action int16
		)
		if err := rows.Scan(&e.ID, &e.ContactID, &action, &e.Payload, &e.CreatedAt); err != nil {
			return nil, 0, s.mapError(err)
		}
		e.Action = entity.EntryAction(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	var count int64
	countQuery := `SELECT count(*) FROM journal_entries` + where.String()
	if err := s.conn.QueryRow(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, s.mapError(err)
	}

	return entries, count, nil
}
