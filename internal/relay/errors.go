package relay

import "errors"

// ErrAuthentication means the handshake failed: the server closed the
// connection before issuing a challenge, or the login was rejected.
// Fatal for the current connection attempt; the reconnect policy
// applies.
var ErrAuthentication = errors.New("authentication handshake failed")
