package config

import "time"

var (
	// RequestTimeout bounds every upstream call. The upstream contract
	// fixes connect/read timeouts at 30 seconds.
	RequestTimeout = 30 * time.Second
)
