package repositories

import "errors"

// ErrInvalidID is returned for ids that are not UUIDs
var ErrInvalidID = errors.New("invalid ID")
