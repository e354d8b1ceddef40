package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/prasetyoadi/rolodex/internal/journal/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/shared/constant"
)

type EntryListInput struct {
	ContactID int64
	Action    string
	From      time.Time
	To        time.Time
	Size      int32
	Page      int32
}

type EntryListOutput struct {
	Page    int32
	Size    int32
	Total   int64
	Entries []entity.Entry
}

func (s *Usecase) EntryList(ctx context.Context, in EntryListInput) (*EntryListOutput, error) {
	ctx, span := s.startSpan(ctx, "EntryList")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermJournalEntries, constant.PermActRead); err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 10 // default limit
	}
	filterData := entity.EntryListFilterData{
		Size: in.Size,
		Page: (max(in.Page, 1) - 1) * in.Size,
	}
	if in.ContactID > 0 {
		filterData.IsFilterByContact = true
		filterData.ContactID = in.ContactID
	}
	if action := entity.ParseSafeEntryAction(in.Action); action != entity.EntryActionUnknown {
		filterData.IsFilterByAction = true
		filterData.Action = int16(action)
	}
	if !in.From.IsZero() {
		filterData.IsFilterByFrom = true
		filterData.From = in.From
	}
	if !in.To.IsZero() {
		filterData.IsFilterByTo = true
		// the upper bound is a date, include the whole day
		filterData.To = in.To.AddDate(0, 0, 1)
	}

	entries, count, err := s.repoDB.GetEntryList(ctx, filterData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list journal entries", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &EntryListOutput{
		Page:    max(in.Page, 1),
		Size:    in.Size,
		Total:   count,
		Entries: entries,
	}, nil
}
