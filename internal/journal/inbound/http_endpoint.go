package inbound

import (
	"time"

	"github.com/prasetyoadi/rolodex/internal/journal/usecase"
	"github.com/prasetyoadi/rolodex/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for reading the audit journal.
type HTTPEndpoint struct {
	uc uc
}

// EntryList returns a page of journal entries.
// @Summary List journal entries
// @Description Returns a paginated list of audit journal entries with optional contact and action filters.
// @Tags Journal
// @Security BearerAuth
// @Produce json
// @Param contact_id query int false "Filter by contact ID"
// @Param action query string false "Filter by action (contact_created|contact_archived)"
// @Param from query string false "Filter entries created on or after this date (YYYY-MM-DD)"
// @Param to query string false "Filter entries created on or before this date (YYYY-MM-DD)"
// @Param size query int false "Pagination size"
// @Param page query int false "Pagination page"
// @Success 200 {object} router.successResponse{data=EntriesResponse} "Journal entries"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/journal/entries [get]
func (h *HTTPEndpoint) EntryList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	contactID, err := r.GetQueryInt64("contact_id")
	if err != nil {
		return nil, err
	}

	from, err := r.GetQueryDate("from", time.DateOnly)
	if err != nil {
		return nil, err
	}

	to, err := r.GetQueryDate("to", time.DateOnly)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.EntryList(r.Context(), usecase.EntryListInput{
		ContactID: contactID,
		Action:    r.GetQuery("action"),
		From:      from,
		To:        to,
		Size:      size,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]EntryResponse, 0, len(resp.Entries))
	for _, item := range resp.Entries {
		entries = append(entries, EntryResponse{
			ID:        item.ID,
			ContactID: item.ContactID,
			Action:    item.Action.String(),
			Payload:   item.Payload,
			CreatedAt: item.CreatedAt,
		})
	}

	return EntriesResponse{
		total:   resp.Total,
		size:    resp.Size,
		page:    resp.Page,
		Entries: entries,
	}, nil
}
