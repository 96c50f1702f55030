package service

import "errors"

// ErrIncompleteRequest means a required field is missing or malformed. It is
// raised before any storage access, so no partial state can exist.
var ErrIncompleteRequest = errors.New("incomplete request")
