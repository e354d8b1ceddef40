package entity

import (
	"errors"
	"strconv"
)

var (
	ErrContactStatusUnknown  = errors.New("directory: contact status is unknown")
	ErrContactStatusArchived = errors.New("directory: contact status is archived")
)

type ContactStatus int16

const (
	// ContactStatusUnknown is mean status is not known / not set.
	ContactStatusUnknown ContactStatus = 0

	// ContactStatusPending mean contact exists but its address has not been verified.
	ContactStatusPending ContactStatus = 1

	// ContactStatusVerified mean the contact proved its primary address is reachable.
	ContactStatusVerified ContactStatus = 2

	// ContactStatusArchived mean the contact was soft deleted and is hidden from listings.
	ContactStatusArchived ContactStatus = 3
)

func (cs ContactStatus) String() string {
	switch cs {
	case ContactStatusPending:
		return "Pending"
	case ContactStatusVerified:
		return "Verified"
	case ContactStatusArchived:
		return "Archived"
	default:
		return "Unknown"
	}
}

func (cs ContactStatus) IsUnknown() bool {
	switch cs {
	case ContactStatusPending, ContactStatusVerified, ContactStatusArchived:
		return false
	default:
		return true
	}
}

func (cs ContactStatus) Ensure() ContactStatus {
	switch cs {
	case ContactStatusPending:
		return ContactStatusPending
	case ContactStatusVerified:
		return ContactStatusVerified
	case ContactStatusArchived:
		return ContactStatusArchived
	default:
		return ContactStatusUnknown
	}
}

func ParseSafeContactStatuses(raws []string) []ContactStatus {
	out := make([]ContactStatus, 0)
	seen := map[ContactStatus]struct{}{}

	for _, v := range raws {
		n, err := strconv.ParseInt(v, 10, 16)
		if err != nil {
			continue
		}

		s := ContactStatus(n)
		if s.IsUnknown() {
			continue
		}

		if _, ok := seen[s]; ok {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

func ToInt16Slice(sts []ContactStatus) []int16 {
	out := make([]int16, len(sts))
	for i, s := range sts {
		out[i] = int16(s)
	}
	return out
}
