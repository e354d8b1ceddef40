package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/shared/constant"
)

type (
	ContactDetailInput struct {
		ID int64 `validate:"required,gt=0"`
	}

	ContactDetailOutput struct {
		Contact entity.Contact
	}
)

func (s *Usecase) ContactDetail(ctx context.Context, in ContactDetailInput) (*ContactDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "ContactDetail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryContacts, constant.PermActRead); err != nil {
		return nil, err
	}

	contact, err := s.repoDB.GetContactByID(ctx, in.ID, false)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "contact not found", "contact_id", in.ID)
		return nil, goerror.NewBusiness("contact not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get contact by id", "contact_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ContactDetailOutput{Contact: *contact}, nil
}
