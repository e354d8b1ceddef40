package entity

import "github.com/prasetyoadi/rolodex/internal/pkg/fieldrule"

// Contact field names as used by the field rule set and API payloads.
const (
	FieldFullName    = "full_name"
	FieldEmail       = "email"
	FieldBackupEmail = "backup_email"
)

// ContactRules binds the contact fields to their validation callbacks.
//
// Both address fields share one lowercase rule, a single callback
// registered for email and backup_email. The primary address must look
// like an email; the backup is wrapped in Optional so a blank value
// passes while a present one faces the same predicate. Rules run before
// any write, which means a rejected value never reaches the database;
// the UNIQUE and CHECK constraints on directory_contacts stay as the
// second, unconditional line of defense.
func ContactRules() *fieldrule.Set {
	s := fieldrule.NewSet()

	s.Bind(fieldrule.NotBlank, FieldFullName)
	s.Bind(fieldrule.MaxRunes(100), FieldFullName)

	s.Bind(fieldrule.NotBlank, FieldEmail)
	s.Bind(fieldrule.Lowercase, FieldEmail, FieldBackupEmail)
	s.Bind(fieldrule.EmailLike, FieldEmail)
	s.Bind(fieldrule.Optional(fieldrule.EmailLike), FieldBackupEmail)

	return s
}
