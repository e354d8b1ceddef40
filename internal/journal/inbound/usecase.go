package inbound

import (
	"context"

	"github.com/prasetyoadi/rolodex/internal/journal/usecase"
)

type ucConsumer interface {
	ConsumeContactCreated(ctx context.Context, in usecase.ConsumeContactCreatedInput) error
	ConsumeContactArchived(ctx context.Context, in usecase.ConsumeContactArchivedInput) error
}

type ucStream interface {
	StreamEntries(ctx context.Context) <-chan usecase.StreamEvent
}

type uc interface {
	ucConsumer
	ucStream

	EntryList(ctx context.Context, in usecase.EntryListInput) (*usecase.EntryListOutput, error)
}
