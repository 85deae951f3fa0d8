package errs

import (
	"fmt"
	"strings"
)

// sanitize renders a value for an error message on a single line.
// Worker identities and IDs arrive from HTTP clients, so line breaks are folded
// into spaces to keep log records intact.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
