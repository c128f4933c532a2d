package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID string, used for ledger keys
// and trace IDs so stored rows sort roughly by creation time.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
