package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/prasetyoadi/rolodex/internal/directory/entity"
)

const contactColumns = `id, full_name, email, coalesce(backup_email, ''), status, labels, created_at, updated_at, archived_at`

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var (
		c          entity.Contact
		status     int16
		archivedAt pgtype.Timestamptz
	)
	if err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.BackupEmail, &status, &c.Labels, &c.CreatedAt, &c.UpdatedAt, &archivedAt); err != nil {
		return nil, err
	}
	c.Status = entity.ContactStatus(status)
	if archivedAt.Valid {
		c.ArchivedAt = &archivedAt.Time
	}
	return &c, nil
}

func (s *DB) GetContactByEmail(ctx context.Context, email string, includeArchived bool) (_ *entity.Contact, err error) {
	ctx, span := s.startSpan(ctx, "GetContactByEmail")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + contactColumns + ` FROM directory_contacts WHERE email = $1`
	if !includeArchived {
		query += ` AND archived_at IS NULL`
	}

	contact, err := scanContact(s.conn.QueryRow(ctx, query, email))
	if err != nil {
		return nil, s.mapError(err)
	}
	return contact, nil
}

func (s *DB) GetContactByID(ctx context.Context, id int64, includeArchived bool) (_ *entity.Contact, err error) {
	ctx, span := s.startSpan(ctx, "GetContactByID")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + contactColumns + ` FROM directory_contacts WHERE id = $1`
	if !includeArchived {
		query += ` AND archived_at IS NULL`
	}

	contact, err := scanContact(s.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, s.mapError(err)
	}
	return contact, nil
}

// orderableColumns whitelists sort targets so the filter never interpolates
// caller-supplied identifiers.
//
//nolint:gochecknoglobals // lookup table
var orderableColumns = map[string]string{
	"full_name":  "full_name",
	"email":      "email",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (s *DB) GetContactList(ctx context.Context, filter entity.ContactListFilterData) (_ []entity.Contact, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetContactList")
	defer func() { s.endSpan(span, err) }()

	var (
		where strings.Builder
		args  []any
	)
	where.WriteString(" WHERE 1=1")
	if filter.IsFilterBySearch {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		fmt.Fprintf(&where, " AND (lower(full_name) LIKE $%d OR lower(email) LIKE $%d)", len(args), len(args))
	}
	if filter.IsFilterByStatus {
		args = append(args, filter.Statuses)
		fmt.Fprintf(&where, " AND status = ANY($%d)", len(args))
	}

	orderBy, ok := orderableColumns[filter.OrderBy]
	if !ok {
		orderBy = "created_at"
	}
	direction := "ASC"
	if strings.EqualFold(filter.OrderDirection, "desc") {
		direction = "DESC"
	}

	listArgs := append(args, filter.Size, filter.Page)
	query := fmt.Sprintf(
		`SELECT %s FROM directory_contacts%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		contactColumns, where.String(), orderBy, direction, len(listArgs)-1, len(listArgs),
	)

	rows, err := s.conn.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	contacts := make([]entity.Contact, 0, filter.Size)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, s.mapError(err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	var count int64
	countQuery := `SELECT count(*) FROM directory_contacts` + where.String()
	if err := s.conn.QueryRow(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, s.mapError(err)
	}

	return contacts, count, nil
}

func (s *DB) GetContactVerificationByToken(ctx context.Context, token string) (_ *entity.ContactVerification, err error) {
	ctx, span := s.startSpan(ctx, "GetContactVerificationByToken")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT v.id, v.token, v.expires_at, c.id, c.email, c.status
		FROM directory_verifications v
		JOIN directory_contacts c ON c.id = v.contact_id
		WHERE v.token = $1`

	var (
		cv     entity.ContactVerification
		status int16
	)
	err = s.conn.QueryRow(ctx, query, token).Scan(
		&cv.VerificationID,
		&cv.VerificationToken,
		&cv.VerificationExpiresAt,
		&cv.ContactID,
		&cv.ContactEmail,
		&status,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	cv.ContactStatus = entity.ContactStatus(status)

	return &cv, nil
}
