// Package fieldrule binds named record fields to validation callbacks.
//
// A callback receives a field's proposed value and either returns the
// accepted (possibly normalized) value or an error describing why the
// value was rejected. Use cases run the bound callbacks before a record
// is handed to the persistence layer, so a rejected value never reaches
// storage. Database constraints remain a separate, always-enforced line
// of defense on top of these application-level checks.
package fieldrule
