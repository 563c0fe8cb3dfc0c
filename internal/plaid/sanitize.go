package plaid

import (
	"fmt"
	"strings"
)

// maxClientUserIDLen is the aggregator's hard cap on client user ids.
const maxClientUserIDLen = 128

// SanitizeClientUserID converts an arbitrary user identifier, commonly an
// email address, into a valid aggregator client user id: the @-domain suffix
// is stripped, only alphanumerics plus '-' and '_' survive, the result is
// capped at 128 characters and must begin with a letter or digit.
func SanitizeClientUserID(raw string) (string, error) {
	if at := strings.IndexByte(raw, '@'); at >= 0 {
		raw = raw[:at]
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	id := strings.TrimLeft(b.String(), "-_")
	if id == "" {
		return "", fmt.Errorf("user id %q contains no usable characters", raw)
	}
	if len(id) > maxClientUserIDLen {
		id = id[:maxClientUserIDLen]
	}

	return id, nil
}
