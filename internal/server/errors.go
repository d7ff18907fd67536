package server

import "errors"

// Returned when the daemon cannot start or serve.
var ErrServer = errors.New("server error")
