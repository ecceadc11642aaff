package validators

import "strings"

// BearerToken extracts the token of an "Authorization: Bearer" header value.
// Any other scheme yields an empty string.
func BearerToken(header string) string {
	token := strings.TrimSpace(header)
	if len(token) < 7 || !strings.EqualFold(token[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(token[7:])
}
