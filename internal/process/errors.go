package process

import "errors"

var ErrSpawn = errors.New("failed to spawn process")
