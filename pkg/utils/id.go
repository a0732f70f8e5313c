package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRunID generates a run ID with a timestamp prefix
func GenerateRunID() string {
	timestamp := time.Now().Format("20060102-150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("run-%s-%s", timestamp, suffix)
}

// ValidateRunID rejects IDs that cannot be used as a URL path segment.
func ValidateRunID(id string) error {
	if id == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if strings.ContainsAny(id, "/:?# ") {
		return fmt.Errorf("run id %q cannot contain '/', ':', '?', '#' or spaces", id)
	}
	return nil
}
