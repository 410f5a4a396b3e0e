package pkg

import (
	"strings"

	"github.com/google/uuid"
)

const DefaultRoomCodeLength = 6

// RoomCodeGenerator returns a generator of short lowercase hex room codes.
// Uniqueness among live rooms is enforced by the registry, not here.
func RoomCodeGenerator(length int) func() string {
	if length <= 0 || length > 32 {
		length = DefaultRoomCodeLength
	}

	return func() string {
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:length]
	}
}

// GenerateConnectionID returns a new random connection identifier.
func GenerateConnectionID() string {
	return uuid.NewString()
}
