package db

import (
	"context"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
)

func (s *DB) PatchContact(ctx context.Context, p entity.PatchContact) (err error) {
	ctx, span := s.startSpan(ctx, "PatchContact")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE directory_contacts
		SET full_name = $2,
			email = $3,
			backup_email = NULLIF($4, ''),
			labels = $5,
			updated_by = $6,
			updated_at = now()
		WHERE id = $1 AND archived_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, p.ID, p.FullName, p.Email, p.BackupEmail, p.Labels, p.UpdatedBy)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) ArchiveContact(ctx context.Context, id int64, oldStatus entity.ContactStatus) (err error) {
	ctx, span := s.startSpan(ctx, "ArchiveContact")
	defer func() { s.endSpan(span, err) }()

	// The status guard makes the archive a compare-and-swap so two racing
	// archivers cannot both observe success.
	const query = `
		UPDATE directory_contacts
		SET status = $3, archived_at = now(), updated_at = now()
		WHERE id = $1 AND status = $2 AND archived_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, id, int16(oldStatus), int16(entity.ContactStatusArchived))
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrConflict
	}

	return nil
}

func (s *DB) DeleteVerification(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteVerification")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM directory_verifications WHERE id = $1`, id)
	return s.mapError(err)
}
