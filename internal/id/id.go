package id

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceKey derives the idempotency key for a source event, like
// "Donation:D001:v1". The same (referenceType, referenceID, eventVersion)
// always yields the same key.
func SourceKey(referenceType, referenceID string, eventVersion int) string {
	return fmt.Sprintf("%s:%s:v%d", referenceType, referenceID, eventVersion)
}

// ParseSourceKey splits a key produced by SourceKey. The reference id may
// itself contain colons; the type is everything before the first colon and
// the version suffix is everything after the last.
func ParseSourceKey(key string) (referenceType, referenceID string, eventVersion int, err error) {
	first := strings.Index(key, ":")
	last := strings.LastIndex(key, ":")
	if first < 0 || last <= first {
		return "", "", 0, fmt.Errorf("invalid source key format: %q", key)
	}

	suffix := key[last+1:]
	if !strings.HasPrefix(suffix, "v") {
		return "", "", 0, fmt.Errorf("invalid version suffix in source key %q", key)
	}
	eventVersion, err = strconv.Atoi(suffix[1:])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid version in source key %q: %w", key, err)
	}

	return key[:first], key[first+1 : last], eventVersion, nil
}
