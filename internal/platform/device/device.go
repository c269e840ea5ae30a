// Package device derives a human-readable device label from a User-Agent
// header. The label is attached to user sessions so re-authentication and
// session listings can show where a login came from.
package device

import (
	"fmt"

	"github.com/mssola/useragent"
)

// Describe returns a short "Browser on OS" label for a User-Agent string.
// Unknown or empty agents map to "Unknown device".
func Describe(userAgent string) string {
	if userAgent == "" {
		return "Unknown device"
	}
	ua := useragent.New(userAgent)
	name, _ := ua.Browser()
	os := ua.OSInfo().Name
	switch {
	case name != "" && os != "":
		return fmt.Sprintf("%s on %s", name, os)
	case name != "":
		return name
	case os != "":
		return os
	default:
		return "Unknown device"
	}
}
