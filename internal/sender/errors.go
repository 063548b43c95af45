package sender

import "errors"

// ErrClosed is returned by Enqueue after the delivery worker has
// permanently stopped; the message is dropped.
var ErrClosed = errors.New("outbound queue closed")
