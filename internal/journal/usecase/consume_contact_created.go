package usecase

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/prasetyoadi/rolodex/internal/journal/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/mail"
	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
)

type ConsumeContactCreatedInput struct {
	ContactID   int64  `validate:"required,gt=0"`
	FullName    string `validate:"required"`
	Email       string `validate:"required,emaillike"`
	BackupEmail string `validate:"omitempty,emaillike"`
	VerifyToken string `validate:"required"`
}

const verifyEmailTemplate = `
<p>Hello {{.full_name}},</p>
<p>You were added to the {{.company_name}} contact directory. Please confirm
this address by clicking the link below:</p>
<p><a href="{{.verify_url}}">Verify your address</a></p>
<p>If you did not expect this email you can ignore it.</p>
`

// ConsumeContactCreated records the journal entry and emails the verification
// link to the new contact. Returning nil on bad payloads keeps the broker from
// redelivering messages that will never parse.
func (s *Usecase) ConsumeContactCreated(ctx context.Context, in ConsumeContactCreatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeContactCreated")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	entry := entity.CreateEntry{
		ID:        s.uid.Generate(),
		ContactID: in.ContactID,
		Action:    entity.EntryActionContactCreated,
		Payload: valueobject.JSONMap{
			"full_name":    in.FullName,
			"email":        in.Email,
			"backup_email": in.BackupEmail,
		},
	}
	if err := s.repoDB.CreateEntry(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to repo create journal entry", "contact_id", in.ContactID, "error", err)
		return err
	}

	s.publishEntry(s.buildStreamEvent(entry))
	s.sendVerificationEmail(ctx, in)

	return nil
}

func (s *Usecase) sendVerificationEmail(ctx context.Context, in ConsumeContactCreatedInput) {
	data := map[string]any{
		"full_name":    in.FullName,
		"company_name": s.cfg.GetString("app.name"),
		"verify_url":   s.cfg.GetString("app.web") + "/verify-contact?token=" + url.QueryEscape(in.VerifyToken),
	}

	body, err := s.renderTemplate("verify_email", verifyEmailTemplate, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render verification email", "contact_id", in.ContactID, "error", err)
		return
	}

	msg := mail.Message{
		To:       []string{in.Email},
		Subject:  "Please verify your contact address",
		HTMLBody: body,
	}
	if err := s.repoMail.Send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to send verification email", "contact_id", in.ContactID, "error", err)
	}
}
