package entity

type EntryAction int16

const (
	// EntryActionUnknown is mean action is not known / not set.
	EntryActionUnknown EntryAction = 0

	// EntryActionContactCreated records that a contact entered the directory.
	EntryActionContactCreated EntryAction = 1

	// EntryActionContactArchived records that a contact was archived.
	EntryActionContactArchived EntryAction = 2
)

func (ea EntryAction) String() string {
	switch ea {
	case EntryActionContactCreated:
		return "ContactCreated"
	case EntryActionContactArchived:
		return "ContactArchived"
	default:
		return "Unknown"
	}
}

// ParseSafeEntryAction maps an action name to its enum, defaulting to unknown.
func ParseSafeEntryAction(s string) EntryAction {
	switch s {
	case "contact_created", "ContactCreated":
		return EntryActionContactCreated
	case "contact_archived", "ContactArchived":
		return EntryActionContactArchived
	default:
		return EntryActionUnknown
	}
}
