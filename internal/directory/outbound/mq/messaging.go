// Package mq publishes directory lifecycle events. Every message carries the
// correlation ID and an HMAC signature of the body so consumers can reject
// tampered or foreign payloads.
package mq

import (
	"context"
	"encoding/json"

	"github.com/prasetyoadi/rolodex/internal/directory/usecase"
	"github.com/prasetyoadi/rolodex/internal/pkg/hash"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
	"github.com/prasetyoadi/rolodex/internal/pkg/messaging"
	"github.com/prasetyoadi/rolodex/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	keyOfCorrelationID = "cID"
	keyOfSignature     = "sig"
)

type Messaging struct {
	client messaging.Messaging
	hmac   hash.Hash
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, hmac hash.Hash, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, hmac: hmac, ins: ins}
}

func (m *Messaging) PublishContactCreated(ctx context.Context, msg usecase.ContactCreatedEvent) error {
	ctx, span := m.ins.Tracer("directory.outbound.mq").Start(ctx, "PublishContactCreated")
	defer span.End()

	body, err := json.Marshal(event.ContactCreatedMessage{
		ContactID:   msg.ContactID,
		FullName:    msg.FullName,
		Email:       msg.Email,
		BackupEmail: msg.BackupEmail,
		VerifyToken: msg.VerifyToken,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return m.publish(ctx, span, event.ContactCreatedDestination, body)
}

func (m *Messaging) PublishContactArchived(ctx context.Context, msg usecase.ContactArchivedEvent) error {
	ctx, span := m.ins.Tracer("directory.outbound.mq").Start(ctx, "PublishContactArchived")
	defer span.End()

	body, err := json.Marshal(event.ContactArchivedMessage{
		ContactID: msg.ContactID,
		Email:     msg.Email,
		Reason:    msg.Reason,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return m.publish(ctx, span, event.ContactArchivedDestination, body)
}

func (m *Messaging) publish(ctx context.Context, span trace.Span, dest string, body []byte) error {
	sig, err := m.hmac.Hash(string(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, dest, messaging.OutgoingMessage{
		Body: body,
		Headers: []messaging.Header{
			{Key: keyOfCorrelationID, Value: []byte(cID)},
			{Key: keyOfSignature, Value: sig},
		},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
