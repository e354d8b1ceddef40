package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/prasetyoadi/rolodex/internal/directory/entity"
)

const insertContactQuery = `
	INSERT INTO directory_contacts (id, full_name, email, backup_email, status, labels, created_by, updated_by)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`

func (s *DB) NewContact(ctx context.Context, c entity.NewContact, v entity.Verification) (err error) {
	ctx, span := s.startSpan(ctx, "NewContact")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	_, err = tx.Exec(ctx, insertContactQuery,
		c.ID, c.FullName, c.Email, c.BackupEmail, int16(c.Status), c.Labels, c.CreatedBy, c.UpdatedBy,
	)
	if err != nil {
		return s.mapError(err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO directory_verifications (id, contact_id, token, expires_at) VALUES ($1, $2, $3, $4)`,
		v.ID, v.ContactID, v.Token, v.ExpiresAt,
	)
	if err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) UpsertContacts(ctx context.Context, contacts []entity.UpsertContact) (created, updated int, err error) {
	ctx, span := s.startSpan(ctx, "UpsertContacts")
	defer func() { s.endSpan(span, err) }()

	if len(contacts) == 0 {
		return 0, 0, nil
	}

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	emails := make([]string, 0, len(contacts))
	for _, c := range contacts {
		emails = append(emails, c.Email)
	}

	rows, err := tx.Query(ctx, `SELECT id, email FROM directory_contacts WHERE email = ANY($1)`, emails)
	if err != nil {
		return 0, 0, s.mapError(err)
	}
	existingByEmail := make(map[string]int64, len(contacts))
	for rows.Next() {
		var (
			id    int64
			email string
		)
		if err := rows.Scan(&id, &email); err != nil {
			rows.Close()
			return 0, 0, s.mapError(err)
		}
		existingByEmail[strings.ToLower(email)] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, 0, s.mapError(err)
	}

	const updateQuery = `
		UPDATE directory_contacts
		SET full_name = $2,
			backup_email = NULLIF($3, ''),
			status = $4,
			labels = coalesce($5, labels),
			updated_by = $6,
			updated_at = now()
		WHERE id = $1`

	for _, c := range contacts {
		if existingID, ok := existingByEmail[strings.ToLower(c.Email)]; ok {
			updated++
			_, err := tx.Exec(ctx, updateQuery, existingID, c.FullName, c.BackupEmail, int16(c.Status), c.Labels, c.UpdatedBy)
			if err != nil {
				return 0, 0, s.mapError(err)
			}
			continue
		}

		created++
		_, err := tx.Exec(ctx, insertContactQuery,
			c.ID, c.FullName, c.Email, c.BackupEmail, int16(c.Status), c.Labels, c.CreatedBy, c.UpdatedBy,
		)
		if err != nil {
			return 0, 0, s.mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, 0, s.mapError(err)
	}

	return created, updated, nil
}

func (s *DB) VerifyContact(ctx context.Context, data entity.VerifyContact) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyContact")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	_, err = tx.Exec(ctx,
		`UPDATE directory_contacts SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		data.ContactID, int16(data.OldStatus), int16(data.NewStatus),
	)
	if err != nil {
		return s.mapError(err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM directory_verifications WHERE id = $1`, data.VerificationID)
	if err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
