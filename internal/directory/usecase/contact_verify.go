package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
)

type ContactVerifyInput struct {
	Token string `validate:"required"`
}

// ContactVerify consumes the emailed token and promotes the contact from
// pending to verified. The endpoint is public: possession of the token
// is the proof.
func (s *Usecase) ContactVerify(ctx context.Context, in ContactVerifyInput) error {
	ctx, span := s.startSpan(ctx, "ContactVerify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash verification token", "error", err)
		return goerror.NewServer(err)
	}

	cv, err := s.repoDB.GetContactVerificationByToken(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "contact verification not found")
		return goerror.NewBusiness("invalid verification token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get contact verification by token", "error", err)
		return goerror.NewServer(err)
	}

	if s.clock.Now().After(cv.VerificationExpiresAt) {
		return goerror.NewBusiness("verification token expired", goerror.CodeUnauthorized)
	}

	switch cv.ContactStatus.Ensure() {
	case entity.ContactStatusVerified:
		if err := s.repoDB.DeleteVerification(ctx, cv.VerificationID); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete verification", "verification_id", cv.VerificationID, "error", err)
			return goerror.NewServer(err)
		}

		return nil

	case entity.ContactStatusArchived:
		return goerror.NewBusiness("contact is archived", goerror.CodeForbidden)

	case entity.ContactStatusPending:
		if err := s.repoDB.VerifyContact(ctx, entity.VerifyContact{
			VerificationID: cv.VerificationID,
			ContactID:      cv.ContactID,
			OldStatus:      entity.ContactStatusPending,
			NewStatus:      entity.ContactStatusVerified,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to repo verify contact", "contact_id", cv.ContactID, "error", err)
			return goerror.NewServer(err)
		}

		return nil

	default:
		slog.WarnContext(ctx, "unknown contact status", "contact_id", cv.ContactID, "status", cv.ContactStatus.String())
		return goerror.NewBusiness("contact status is unrecognized", goerror.CodeForbidden)
	}
}
