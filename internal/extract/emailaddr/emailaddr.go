// Package emailaddr normalizes and validates candidate contact addresses.
// It is the single gate every tier runs its candidates through: format check,
// asset-extension rejection, and blocklists for junk domains and role accounts.
package emailaddr

import (
	"regexp"
	"strings"
)

// blockedDomains never yield useful contact emails: analytics and error
// trackers, social platforms, CMS/site-builder platforms, markup vocabulary
// hosts, and asset CDNs. Matched exactly or as a parent of the candidate's
// domain.
var blockedDomains = map[string]struct{}{
	"example.com":           {},
	"test.com":              {},
	"localhost":             {},
	"wix.com":               {},
	"weebly.com":            {},
	"squarespace.com":       {},
	"godaddy.com":           {},
	"sentry.io":             {},
	"google-analytics.com":  {},
	"googleusercontent.com": {},
	"googleapis.com":        {},
	"facebook.com":          {},
	"twitter.com":           {},
	"instagram.com":         {},
	"youtube.com":           {},
	"linkedin.com":          {},
	"schema.org":            {},
	"w3.org":                {},
	"gravatar.com":          {},
	"wordpress.org":         {},
	"wp.com":                {},
}

// blockedLocalPrefixes are local parts that mark automated mailboxes or
// placeholder asset names harvested by the regex tiers.
var blockedLocalPrefixes = []string{
	"noreply",
	"no-reply",
	"donotreply",
	"do-not-reply",
	"mailer-daemon",
	"postmaster",
	"hostmaster",
	"webmaster",
	"abuse",
	"root",
	"nobody",
	"image",
	"img",
	"icon",
	"logo",
	"banner",
	"placeholder",
}

var (
	formatRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Asset URLs matched by a loose regex sometimes look like addresses
	// (e.g. photo@2x.example.com/banner.png).
	fileExtRe = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|svg|webp|ico|bmp|tiff|pdf|css|js|woff|woff2|ttf|eot)$`)
)

// IsValid reports whether email passes format, extension, and blocklist checks.
// The input is expected to be already normalized (see Normalize).
func IsValid(email string) bool {
	if email == "" {
		return false
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if !formatRe.MatchString(email) {
		return false
	}
	if fileExtRe.MatchString(email) {
		return false
	}

	at := strings.Index(email, "@")
	local, domainPart := email[:at], email[at+1:]

	if _, ok := blockedDomains[domainPart]; ok {
		return false
	}
	for blocked := range blockedDomains {
		if strings.HasSuffix(domainPart, "."+blocked) {
			return false
		}
	}

	for _, prefix := range blockedLocalPrefixes {
		if local == prefix || strings.HasPrefix(local, prefix+".") {
			return false
		}
	}

	return true
}

// Normalize trims, lowercases, and strips trailing junk from a raw candidate,
// then validates it. Returns the cleaned address and true only if every check
// passes; there are no partial results.
func Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	cleaned := strings.TrimRight(strings.ToLower(strings.TrimSpace(raw)), ".")
	// Query strings and fragments sometimes stick to harvested addresses.
	if i := strings.IndexByte(cleaned, '?'); i >= 0 {
		cleaned = cleaned[:i]
	}
	if i := strings.IndexByte(cleaned, '#'); i >= 0 {
		cleaned = cleaned[:i]
	}
	if !IsValid(cleaned) {
		return "", false
	}
	return cleaned, true
}
