// Package validator wraps struct validation behind a small interface.
//
// The concrete implementation is go-playground/validator v10 with the
// custom emaillike and notblank tags used by contact inputs. Usecases
// depend on the Validator interface so tests can swap it out.
package validator
