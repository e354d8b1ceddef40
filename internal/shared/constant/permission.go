package constant

// Casbin objects.
const (
	PermDirectoryContacts = "directory:contacts"
	PermJournalEntries    = "journal:entries"
)

// Casbin actions.
const (
	PermActRead   = "read"
	PermActCreate = "create"
	PermActUpdate = "update"
	PermActDelete = "delete"
	PermActExport = "export"
	PermActImport = "import"
)
