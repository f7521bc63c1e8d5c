package session

import "errors"

var ErrNotFound = errors.New("session value not found")
