// Package clock wraps time.Now behind an interface. Usecases take a
// Clocker so verification expiries and journal timestamps can be fixed
// in tests.
package clock
