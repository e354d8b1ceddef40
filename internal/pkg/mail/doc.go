// Package mail sends email through a provider-neutral Mail interface.
//
// The journal module uses it for contact verification messages. The
// concrete implementation speaks SMTP; swapping in an API provider
// only requires another implementation of Mail.
package mail
