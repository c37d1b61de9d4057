package domain

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ParseULID parses a string into a ULID. Audit entries read back from the
// store carry their IDs as text.
func ParseULID(id string) (ulid.ULID, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid ULID: %w", err)
	}
	return parsed, nil
}
