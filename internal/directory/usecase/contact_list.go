package usecase

import (
	"context"
	"log/slog"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/shared/constant"
)

type ContactListInput struct {
	Search    string // value already trimmed
	Statuses  []string
	Size      int32
	Page      int32
	SortBy    string // value already trimmed
	SortOrder string // value is: `asc` or `desc`; already trimmed and lowered
}

type ContactListOutput struct {
	Page     int32
	Size     int32
	Total    int64
	Contacts []entity.Contact
}

func (s *Usecase) ContactList(ctx context.Context, in ContactListInput) (*ContactListOutput, error) {
	ctx, span := s.startSpan(ctx, "ContactList")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryContacts, constant.PermActRead); err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 10 // default limit
	}
	filterData := entity.ContactListFilterData{
		OrderBy:        in.SortBy,
		OrderDirection: in.SortOrder,
		Search:         in.Search,
		Statuses:       entity.ToInt16Slice(entity.ParseSafeContactStatuses(in.Statuses)),
		Size:           in.Size,
		Page:           (max(in.Page, 1) - 1) * in.Size,
	}
	if in.Search != "" {
		filterData.IsFilterBySearch = true
	}
	if len(filterData.Statuses) > 0 {
		filterData.IsFilterByStatus = true
	}

	contacts, count, err := s.repoDB.GetContactList(ctx, filterData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list contacts", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ContactListOutput{
		Page:     max(in.Page, 1),
		Size:     in.Size,
		Total:    count,
		Contacts: contacts,
	}, nil
}
