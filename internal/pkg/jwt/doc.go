// Package jwt carries bearer-token authentication: a typed Claims
// wrapper, an HS512 signer/verifier, and the context helpers the auth
// middleware and usecases share.
package jwt
