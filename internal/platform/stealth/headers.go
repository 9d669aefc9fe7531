// internal/platform/stealth/headers.go
package stealth

import (
	"math/rand"
	"net/url"
)

// Rotating pools of realistic browser identities. Picked per request so a
// burst of fetches does not present one uniform fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.5; rv:128.0) Gecko/20100101 Firefox/128.0",
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-AU,en;q=0.9",
	"en-US,en;q=0.9,fr;q=0.8",
	"en;q=0.9",
}

// browserHeaders builds a randomized but plausible header set for rawURL.
// The Referer points at the target's own origin root, which is what a
// same-site navigation would send.
func browserHeaders(rawURL string) map[string]string {
	h := map[string]string{
		"User-Agent":                userAgents[rand.Intn(len(userAgents))],
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           acceptLanguages[rand.Intn(len(acceptLanguages))],
		"Accept-Encoding":           "gzip, deflate, br",
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" && u.Host != "" {
		h["Referer"] = u.Scheme + "://" + u.Host + "/"
	}
	return h
}
