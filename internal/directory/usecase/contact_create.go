package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/pkg/idempotency"
	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
	"github.com/prasetyoadi/rolodex/internal/shared/constant"
)

type (
	ContactCreateInput struct {
		FullName       string `validate:"required,notblank,max=100"`
		Email          string `validate:"required,emaillike"`
		BackupEmail    string `validate:"omitempty,emaillike"`
		Labels         valueobject.JSONMap
		IdempotencyKey string
	}

	ContactCreateOutput struct {
		ContactID int64
	}
)

func (s *Usecase) ContactCreate(ctx context.Context, in ContactCreateInput) (*ContactCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "ContactCreate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	// The field hooks run after struct validation so they see values the
	// struct tags already deemed well-formed; they normalize and apply the
	// per-field predicates before anything touches the repository.
	accepted, err := s.applyRules(ctx, map[string]string{
		entity.FieldFullName:    in.FullName,
		entity.FieldEmail:       in.Email,
		entity.FieldBackupEmail: in.BackupEmail,
	})
	if err != nil {
		return nil, err
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryContacts, constant.PermActCreate)
	if err != nil {
		return nil, err
	}

	var out *ContactCreateOutput
	create := func(ctx context.Context) error {
		contact, err := s.repoDB.GetContactByEmail(ctx, accepted[entity.FieldEmail], true)
		if err == nil && contact != nil {
			slog.WarnContext(ctx, "contact already exists", "email", accepted[entity.FieldEmail])
			return goerror.NewBusiness("contact with that email already exists", goerror.CodeConflict)
		}
		if !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get contact by email", "email", accepted[entity.FieldEmail], "error", err)
			return goerror.NewServer(err)
		}

		newContact := entity.NewContact{
			ID:          s.uid.Generate(),
			CreatedBy:   clm.UserID,
			UpdatedBy:   clm.UserID,
			FullName:    accepted[entity.FieldFullName],
			Email:       accepted[entity.FieldEmail],
			BackupEmail: accepted[entity.FieldBackupEmail],
			Status:      entity.ContactStatusPending,
			Labels:      in.Labels,
		}

		vToken := s.oid.Generate()
		vTokenHash, err := s.hmac.Hash(vToken)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash verification token", "error", err)
			return goerror.NewServer(err)
		}

		verification := entity.Verification{
			ID:        s.uid.Generate(),
			ContactID: newContact.ID,
			Token:     string(vTokenHash),
			ExpiresAt: s.clock.Now().Add(s.cfg.GetHour("modules.directory.verification_ttl_hours")),
		}

		if err := s.repoDB.NewContact(ctx, newContact, verification); err != nil {
			if errors.Is(err, goerror.ErrConflict) {
				// The UNIQUE constraint caught a race the lookup missed.
				return goerror.NewBusiness("contact with that email already exists", goerror.CodeConflict)
			}
			if errors.Is(err, goerror.ErrInvalid) {
				// A CHECK or NOT NULL constraint rejected the row.
				return goerror.NewInvalidInput(nil, "contact", "rejected by a storage constraint")
			}
			slog.ErrorContext(ctx, "failed to repo create contact", "email", newContact.Email, "error", err)
			return goerror.NewServer(err)
		}

		if err := s.repoMessaging.PublishContactCreated(ctx, ContactCreatedEvent{
			ContactID:   newContact.ID,
			FullName:    newContact.FullName,
			Email:       newContact.Email,
			BackupEmail: newContact.BackupEmail,
			VerifyToken: vToken,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish contact created", "contact_id", newContact.ID, "error", err)
		}

		out = &ContactCreateOutput{ContactID: newContact.ID}
		return nil
	}

	if in.IdempotencyKey != "" {
		if err := s.idemp.Exec(ctx, "directory:contact_create:"+in.IdempotencyKey, create); err != nil {
			return nil, mapIdempotencyError(err)
		}
		return out, nil
	}

	if err := create(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func mapIdempotencyError(err error) error {
	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		return err
	}

	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		return goerror.NewBusiness("operation already processed", goerror.CodeConflict)
	default:
		return goerror.NewServer(err)
	}
}
