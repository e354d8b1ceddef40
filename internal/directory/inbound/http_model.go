package inbound

import (
	"time"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
)

type ContactResponse struct {
	ID          int64                `json:"id,string"`
	FullName    string               `json:"full_name"`
	Email       string               `json:"email"`
	BackupEmail string               `json:"backup_email,omitempty"`
	Status      entity.ContactStatus `json:"status"`
	Labels      valueobject.JSONMap  `json:"labels,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	ArchivedAt  *time.Time           `json:"archived_at,omitempty"`
}

type ContactCreateRequest struct {
	FullName    string              `json:"full_name"`
	Email       string              `json:"email"`
	BackupEmail string              `json:"backup_email"`
	Labels      valueobject.JSONMap `json:"labels"`
}

type ContactCreateResponse struct {
	ID int64 `json:"id,string"`
}

type ContactUpdateRequest struct {
	FullName    string              `json:"full_name"`
	Email       string              `json:"email"`
	BackupEmail string              `json:"backup_email"`
	Labels      valueobject.JSONMap `json:"labels"`
}

type ContactsResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r ContactsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type ContactDetailResponse struct {
	Contact ContactResponse `json:"contact"`
}

type ContactVerifyRequest struct {
	Token string `json:"token"`
}

type ContactArchiveRequest struct {
	Reason string `json:"reason"`
}

type ContactImportRequest []ContactImportContactRequest

type ContactImportContactRequest struct {
	FullName    string               `json:"full_name"`
	Email       string               `json:"email"`
	BackupEmail string               `json:"backup_email"`
	Status      entity.ContactStatus `json:"status"`
	Labels      valueobject.JSONMap  `json:"labels"`
}

type ContactImportResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type ContactExportResponse struct {
	URL       string    `json:"url"`
	Total     int64     `json:"total"`
	ExpiresAt time.Time `json:"expires_at"`
}
