package inbound

import (
	"time"

	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
)

type EntryResponse struct {
	ID        int64               `json:"id,string"`
	ContactID int64               `json:"contact_id,string"`
	Action    string              `json:"action"`
	Payload   valueobject.JSONMap `json:"payload"`
	CreatedAt time.Time           `json:"created_at"`
}

type EntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r EntriesResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}
