package utils

import (
	"strings"

	ua "github.com/mileusna/useragent"
)

// ParseUserAgent extracts browser, OS and device class from a User-Agent header.
func ParseUserAgent(userAgent string) (browser, os, device string) {
	if userAgent == "" {
		return "Unknown Browser", "Unknown OS", "Desktop"
	}

	parsed := ua.Parse(userAgent)

	browser = strings.TrimSpace(parsed.Name)
	if browser == "" {
		browser = "Unknown Browser"
	}
	os = strings.TrimSpace(parsed.OS)
	if os == "" {
		os = "Unknown OS"
	}

	switch {
	case parsed.Bot:
		device = "Bot"
	case parsed.Mobile:
		device = "Mobile"
	case parsed.Tablet:
		device = "Tablet"
	default:
		device = "Desktop"
	}
	return browser, os, device
}
