// Package cfdecode reverses Cloudflare's email address obfuscation.
//
// The protection feature replaces addresses in markup with a
// <span data-cfemail="HEX"> attribute or an <a> pointing at
// /cdn-cgi/l/email-protection#HEX. The hex payload is a single-byte XOR
// cipher: the first byte is the key, every following byte XORed with the key
// yields one character of the original address.
package cfdecode

import (
	"encoding/hex"
	"strings"
)

// Decode reverses an obfuscated hex payload. Returns the plaintext address
// and true, or "" and false when the payload is malformed or the result does
// not look like an email address.
func Decode(encoded string) (string, bool) {
	encoded = strings.TrimSpace(encoded)
	if len(encoded) < 4 || len(encoded)%2 != 0 {
		return "", false
	}

	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return "", false
	}

	key := raw[0]
	out := make([]byte, 0, len(raw)-1)
	for _, b := range raw[1:] {
		out = append(out, b^key)
	}
	decoded := string(out)

	// Cheap plausibility check before the full validator runs.
	at := strings.LastIndex(decoded, "@")
	if at < 0 || !strings.Contains(decoded[at+1:], ".") {
		return "", false
	}

	return decoded, true
}
