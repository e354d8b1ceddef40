package event

const ContactArchivedDestination string = "contact_archived"
const ContactArchivedConsumerJournal string = "contact_archived_journal"

type ContactArchivedMessage struct {
	ContactID int64  `json:"contact_id"`
	Email     string `json:"email"`
	Reason    string `json:"reason,omitempty"`
}
