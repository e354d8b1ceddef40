package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
	"github.com/prasetyoadi/rolodex/internal/shared/constant"
)

type (
	ContactImportContactInput struct {
		FullName    string               `validate:"required,max=100"`
		Email       string               `validate:"required"`
		BackupEmail string               `validate:"omitempty"`
		Status      entity.ContactStatus `validate:"omitempty,gt=0"`
		Labels      valueobject.JSONMap  `validate:"omitempty,max=20"`
	}

	ContactImportInput struct {
		Contacts       []ContactImportContactInput `validate:"required,min=1,max=10000,unique=Email,dive"`
		IdempotencyKey string
	}

	ContactImportOutput struct {
		Created int
		Updated int
	}
)

// ContactImport upserts a batch of contacts keyed by email. Every row passes
// through the same field rules as a single create, and one bad row rejects
// the whole batch before anything is written.
func (s *Usecase) ContactImport(ctx context.Context, in ContactImportInput) (*ContactImportOutput, error) {
	ctx, span := s.startSpan(ctx, "ContactImport")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryContacts, constant.PermActImport)
	if err != nil {
		return nil, err
	}

	contacts := make([]entity.UpsertContact, 0, len(in.Contacts))
	for i, item := range in.Contacts {
		normalized, err := s.applyRules(ctx, map[string]string{
			entity.FieldFullName:    item.FullName,
			entity.FieldEmail:       item.Email,
			entity.FieldBackupEmail: item.BackupEmail,
		})
		if err != nil {
			slog.WarnContext(ctx, "contact import row rejected", "row", i, "email", item.Email)
			return nil, err
		}

		status := item.Status
		if status.IsUnknown() {
			status = entity.ContactStatusPending
		}

		contacts = append(contacts, entity.UpsertContact{
			ID:          s.uid.Generate(),
			CreatedBy:   clm.UserID,
			UpdatedBy:   clm.UserID,
			FullName:    normalized[entity.FieldFullName],
			Email:       normalized[entity.FieldEmail],
			BackupEmail: normalized[entity.FieldBackupEmail],
			Status:      status,
			Labels:      item.Labels,
		})
	}

	var out *ContactImportOutput
	upsert := func(ctx context.Context) error {
		created, updated, err := s.repoDB.UpsertContacts(ctx, contacts)
		if err != nil {
			if errors.Is(err, goerror.ErrInvalid) {
				return goerror.NewInvalidInput(nil, "contacts", "rejected by a storage constraint")
			}
			slog.ErrorContext(ctx, "failed to repo upsert contacts", "error", err)
			return goerror.NewServer(err)
		}

		out = &ContactImportOutput{Created: created, Updated: updated}
		return nil
	}

	if in.IdempotencyKey != "" {
		if err := s.idemp.Exec(ctx, "directory:contact_import:"+in.IdempotencyKey, upsert); err != nil {
			return nil, mapIdempotencyError(err)
		}
		return out, nil
	}

	if err := upsert(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
