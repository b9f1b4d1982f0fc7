package artifact

import "errors"

// ErrNotFound is returned when an artifact (or the requested version) does
// not exist for the chat.
var ErrNotFound = errors.New("artifact not found")
