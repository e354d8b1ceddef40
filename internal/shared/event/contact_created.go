package event

const ContactCreatedDestination string = "contact_created"
const ContactCreatedConsumerJournal string = "contact_created_journal"

type ContactCreatedMessage struct {
	ContactID   int64  `json:"contact_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	BackupEmail string `json:"backup_email,omitempty"`
	VerifyToken string `json:"verify_token"`
}
