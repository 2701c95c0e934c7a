package aggregate

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone reformats US phone numbers as (XXX) XXX-XXXX. Numbers that
// don't look like 10- or 11-digit US numbers pass through unchanged.
func NormalizePhone(phone string) string {
	if phone == "" {
		return ""
	}

	digits := nonDigits.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && digits[0] == '1':
		return "(" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	}
	return phone
}

// NormalizeURL ensures a URL carries a protocol prefix.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}
