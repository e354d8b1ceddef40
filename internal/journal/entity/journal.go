package entity

import (
	"time"

	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
)

// Entry is one immutable line in the directory's audit journal.
type Entry struct {
	ID        int64
	ContactID int64
	Action    EntryAction
	Payload   valueobject.JSONMap
	CreatedAt time.Time
}

// ---- //

type CreateEntry struct {
	ID        int64
	ContactID int64
	Action    EntryAction
	Payload   valueobject.JSONMap
}

type EntryListFilterData struct {
	IsFilterByContact bool
	IsFilterByAction  bool
	IsFilterByFrom    bool
	IsFilterByTo      bool
	ContactID         int64
	Action            int16
	From              time.Time
	To                time.Time
	Size              int32
	Page              int32
}
