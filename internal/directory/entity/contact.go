package entity

import (
	"time"

	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
)

type Contact struct {
	ID          int64
	FullName    string
	Email       string
	BackupEmail string
	Status      ContactStatus
	Labels      valueobject.JSONMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ArchivedAt  *time.Time
}

// Verification is the pending proof that a contact's primary address is
// reachable. The token travels in the verification email.
type Verification struct {
	ID        int64
	ContactID int64
	Token     string
	ExpiresAt time.Time
}

// ---- //

type NewContact struct {
	ID          int64
	CreatedBy   int64
	UpdatedBy   int64
	FullName    string
	Email       string
	BackupEmail string
	Status      ContactStatus
	Labels      valueobject.JSONMap
}

type PatchContact struct {
	ID          int64
	UpdatedBy   int64
	FullName    string
	Email       string
	BackupEmail string
	Labels      valueobject.JSONMap
}

type UpsertContact struct {
	ID          int64
	CreatedBy   int64
	UpdatedBy   int64
	FullName    string
	Email       string
	BackupEmail string
	Status      ContactStatus
	Labels      valueobject.JSONMap
}

type VerifyContact struct {
	VerificationID int64
	ContactID      int64
	OldStatus      ContactStatus
	NewStatus      ContactStatus
}

type ContactVerification struct {
	VerificationID        int64
	VerificationToken     string
	VerificationExpiresAt time.Time
	ContactID             int64
	ContactEmail          string
	ContactStatus         ContactStatus
}

type ContactListFilterData struct {
	IsFilterBySearch bool
	IsFilterByStatus bool
	Search           string
	Statuses         []int16
	Size             int32
	Page             int32
	OrderBy          string
	OrderDirection   string
}
