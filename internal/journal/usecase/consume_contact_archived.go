package usecase

import (
	"context"
	"log/slog"

	"github.com/prasetyoadi/rolodex/internal/journal/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
)

type ConsumeContactArchivedInput struct {
	ContactID int64  `validate:"required,gt=0"`
	Email     string `validate:"required,emaillike"`
	Reason    string
}

func (s *Usecase) ConsumeContactArchived(ctx context.Context, in ConsumeContactArchivedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeContactArchived")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	entry := entity.CreateEntry{
		ID:        s.uid.Generate(),
		ContactID: in.ContactID,
		Action:    entity.EntryActionContactArchived,
		Payload: valueobject.JSONMap{
			"email":  in.Email,
			"reason": in.Reason,
		},
	}
	if err := s.repoDB.CreateEntry(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to repo create journal entry", "contact_id", in.ContactID, "error", err)
		return err
	}

	s.publishEntry(s.buildStreamEvent(entry))

	return nil
}
