package httpclient

import (
	"strings"
)

// JoinURL joins a base URL and path segments without doubling slashes.
// Query strings in segments are preserved.
func JoinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(strings.Trim(segment, "/"))
	}

	return b.String()
}
