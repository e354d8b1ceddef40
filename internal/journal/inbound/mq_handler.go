package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/prasetyoadi/rolodex/internal/journal/usecase"
	"github.com/prasetyoadi/rolodex/internal/pkg/hash"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
	"github.com/prasetyoadi/rolodex/internal/pkg/messaging"
	"github.com/prasetyoadi/rolodex/internal/pkg/uid"
	"github.com/prasetyoadi/rolodex/internal/shared/event"
)

const (
	keyOfCorrelationID = "cID"
	keyOfSignature     = "sig"
)

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	hmac hash.Hash
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// verifySignature checks the HMAC header against the body. Messages without
// a valid signature are dropped, not retried.
func (h *MQHandler) verifySignature(ctx context.Context, msg messaging.Message) bool {
	for _, header := range msg.Headers() {
		if header.Key == keyOfSignature {
			if h.hmac.Verify(string(header.Value), string(msg.Body())) {
				return true
			}
			slog.WarnContext(ctx, "message signature mismatch, dropping")
			return false
		}
	}

	slog.WarnContext(ctx, "message without signature, dropping")
	return false
}

func (h *MQHandler) ContactCreatedJournal(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("journal.inbound.mq").Start(ctx, "ContactCreatedJournal")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: contact created journal", "msg_body", string(body))

	if !h.verifySignature(ctx, msg) {
		return nil
	}

	var payload event.ContactCreatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of contact created journal", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeContactCreated(ctx, usecase.ConsumeContactCreatedInput{
		ContactID:   payload.ContactID,
		FullName:    payload.FullName,
		Email:       payload.Email,
		BackupEmail: payload.BackupEmail,
		VerifyToken: payload.VerifyToken,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume contact created", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) ContactArchivedJournal(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("journal.inbound.mq").Start(ctx, "ContactArchivedJournal")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: contact archived journal", "msg_body", string(body))

	if !h.verifySignature(ctx, msg) {
		return nil
	}

	var payload event.ContactArchivedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of contact archived journal", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeContactArchived(ctx, usecase.ConsumeContactArchivedInput{
		ContactID: payload.ContactID,
		Email:     payload.Email,
		Reason:    payload.Reason,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume contact archived", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
