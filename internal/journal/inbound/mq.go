package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/prasetyoadi/rolodex/internal/pkg/config"
	"github.com/prasetyoadi/rolodex/internal/pkg/goroutine"
	"github.com/prasetyoadi/rolodex/internal/pkg/hash"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
	"github.com/prasetyoadi/rolodex/internal/pkg/messaging"
	"github.com/prasetyoadi/rolodex/internal/pkg/uid"
	"github.com/prasetyoadi/rolodex/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	hmac hash.Hash,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, hmac: hmac, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.journal.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubsub
		handler            messaging.Handler
	}{
		{
			name:               event.ContactCreatedConsumerJournal,
			topic:              event.ContactCreatedDestination,
			nsqConsumerName:    event.ContactCreatedConsumerJournal,
			natsConsumerName:   event.ContactCreatedConsumerJournal,
			kafkaConsumerName:  event.ContactCreatedConsumerJournal,
			pubsubConsumerName: event.ContactCreatedConsumerJournal,
			handler:            mqHandler.ContactCreatedJournal,
		},
		{
			name:               event.ContactArchivedConsumerJournal,
			topic:              event.ContactArchivedDestination,
			nsqConsumerName:    event.ContactArchivedConsumerJournal,
			natsConsumerName:   event.ContactArchivedConsumerJournal,
			kafkaConsumerName:  event.ContactArchivedConsumerJournal,
			pubsubConsumerName: event.ContactArchivedConsumerJournal,
			handler:            mqHandler.ContactArchivedJournal,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
