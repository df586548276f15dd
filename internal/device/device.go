// Package device derives human-readable device names from User-Agent strings
// for display on gateway session records.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// DisplayName renders a User-Agent string as "Browser on OS", e.g. "Chrome on
// Mac OS X". Mobile agents prefer the platform ("Safari on iPhone") since the
// OS string tends to be noise there.
func DisplayName(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()

	where := ua.OS()
	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			where = platform
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if where == "" {
		where = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + where)
}
