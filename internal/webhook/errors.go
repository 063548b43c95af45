package webhook

import "errors"

// Rejection errors surfaced as HTTP error responses. Each distinct
// verification failure has its own sentinel so the response carries a
// precise reason.
var (
	ErrMissingSignature  = errors.New("missing signature header")
	ErrSignaturePrefix   = errors.New("signature does not start with sha256=")
	ErrSignatureHex      = errors.New("signature is not valid hex")
	ErrSignatureMismatch = errors.New("signature verification failed")
)
