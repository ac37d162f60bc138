package instance

import (
	"os"
	"strings"
)

const envWorkerID = "MATMASTER_WORKER_ID"

// GetID returns the process instance identifier, falling back to the hostname.
func GetID() string {
	if id := strings.TrimSpace(os.Getenv(envWorkerID)); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
