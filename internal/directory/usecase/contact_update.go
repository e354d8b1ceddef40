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

type ContactUpdateInput struct {
	ID          int64  `validate:"required,gt=0"`
	FullName    string `validate:"required,notblank,max=100"`
	Email       string `validate:"required,emaillike"`
	BackupEmail string `validate:"omitempty,emaillike"`
	Labels      valueobject.JSONMap
}

func (s *Usecase) ContactUpdate(ctx context.Context, in ContactUpdateInput) error {
	ctx, span := s.startSpan(ctx, "ContactUpdate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	accepted, err := s.applyRules(ctx, map[string]string{
		entity.FieldFullName:    in.FullName,
		entity.FieldEmail:       in.Email,
		entity.FieldBackupEmail: in.BackupEmail,
	})
	if err != nil {
		return err
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryContacts, constant.PermActUpdate)
	if err != nil {
		return err
	}

	contact, err := s.repoDB.GetContactByID(ctx, in.ID, false)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "contact not found", "contact_id", in.ID)
		return goerror.NewBusiness("contact not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get contact by id", "contact_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if contact.Status.Ensure() == entity.ContactStatusArchived {
		return goerror.NewBusiness("contact is archived", goerror.CodeConflict)
	}

	if other, err := s.repoDB.GetContactByEmail(ctx, accepted[entity.FieldEmail], true); err == nil && other != nil && other.ID != in.ID {
		return goerror.NewBusiness("contact with that email already exists", goerror.CodeConflict)
	} else if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get contact by email", "email", accepted[entity.FieldEmail], "error", err)
		return goerror.NewServer(err)
	}

	patch := entity.PatchContact{
		ID:          in.ID,
		UpdatedBy:   clm.UserID,
		FullName:    accepted[entity.FieldFullName],
		Email:       accepted[entity.FieldEmail],
		BackupEmail: accepted[entity.FieldBackupEmail],
		Labels:      in.Labels,
	}

	if err := s.repoDB.PatchContact(ctx, patch); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return goerror.NewBusiness("contact with that email already exists", goerror.CodeConflict)
		}
		if errors.Is(err, goerror.ErrInvalid) {
			return goerror.NewInvalidInput(nil, "contact", "rejected by a storage constraint")
		}
		slog.ErrorContext(ctx, "failed to repo patch contact", "contact_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
