package accounts

import (
	"encoding/json"
	"fmt"
)

// encodeIDSet serializes a follower/following set as a JSON array.
// A nil set encodes as "[]" so the stored shape is stable.
func encodeIDSet(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode id set: %w", err)
	}
	return string(b), nil
}

// decodeIDSet parses a JSON array column back into a set of account IDs.
func decodeIDSet(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode id set: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
