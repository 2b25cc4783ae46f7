package lineparse

import (
	"encoding/hex"
	"strings"
)

// FormatHex renders bytes as upper-case hex pairs separated by spaces,
// e.g. "0D 0A 31".
func FormatHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	enc := strings.ToUpper(hex.EncodeToString(b))

	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i := 0; i < len(enc); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(enc[i : i+2])
	}
	return sb.String()
}
