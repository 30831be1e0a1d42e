package server

import "time"

// Exercise traffic is short GM commands and scoreboard polls, so the
// per-request timeouts stay tight; idle keeps poller connections warm.
const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
