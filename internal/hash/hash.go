// Package hash provides content fingerprints and truncated hash IDs.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// IDLength is the number of hex characters used for truncated hash IDs.
const IDLength = 16

// fieldSeparator keeps ("ab", "c") and ("a", "bc") from hashing alike.
const fieldSeparator = "\x00"

// Fingerprint returns the SHA-256 digest of a submission's identity and
// content as a 64-character hex string. Identical (slug, language, code)
// triples always produce the same fingerprint.
func Fingerprint(slug, language, code string) string {
	h := sha256.New()
	h.Write([]byte(slug))
	h.Write([]byte(fieldSeparator))
	h.Write([]byte(language))
	h.Write([]byte(fieldSeparator))
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

// TruncatedSHA256 returns a truncated SHA256 hash of the input string.
// The result is a 16-character hex string.
func TruncatedSHA256(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])[:IDLength]
}

// Short truncates a full fingerprint for log lines and commit messages.
func Short(fingerprint string) string {
	if len(fingerprint) <= 8 {
		return fingerprint
	}
	return fingerprint[:8]
}
