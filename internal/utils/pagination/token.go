package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeToken creates a base64 encoded token from an event time and creation
// time, used for keyset pagination over a card's event history.
func EncodeToken(eventAt time.Time, createdAt time.Time) string {
	tokenStr := fmt.Sprintf("%s|%s", eventAt.Format(timeFormat), createdAt.Format(timeFormat))
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into event time and
// creation time.
func DecodeToken(token string) (time.Time, time.Time, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	tokenStr := string(decodedBytes)
	parts := strings.SplitN(tokenStr, "|", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (split)")
	}

	eventAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (event time parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return eventAt, createdAt, nil
}
