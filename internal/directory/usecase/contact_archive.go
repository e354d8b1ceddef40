package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/shared/constant"
)

type ContactArchiveInput struct {
	ID     int64 `validate:"required,gt=0"`
	Reason string `validate:"omitempty,max=200"`
}

func (s *Usecase) ContactArchive(ctx context.Context, in ContactArchiveInput) error {
	ctx, span := s.startSpan(ctx, "ContactArchive")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryContacts, constant.PermActDelete); err != nil {
		return err
	}

	contact, err := s.repoDB.GetContactByID(ctx, in.ID, true)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "contact not found", "contact_id", in.ID)
		return goerror.NewBusiness("contact not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get contact by id", "contact_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if contact.Status.Ensure() == entity.ContactStatusArchived {
		return nil // already archived, nothing to do
	}

	if err := s.repoDB.ArchiveContact(ctx, in.ID, contact.Status); err != nil {
		slog.ErrorContext(ctx, "failed to repo archive contact", "contact_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishContactArchived(ctx, ContactArchivedEvent{
		ContactID: contact.ID,
		Email:     contact.Email,
		Reason:    in.Reason,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish contact archived", "contact_id", contact.ID, "error", err)
	}

	return nil
}
