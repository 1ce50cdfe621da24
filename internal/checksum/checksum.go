// Package checksum fingerprints views and formats the fingerprints as HTTP
// entity tags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// JSON returns the Sum of the JSON encoding of v.
func JSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Sum(data), nil
}

// ETag quotes sum as a strong entity tag.
func ETag(sum string) string {
	return `"` + sum + `"`
}

// Unquote strips surrounding quotes and a weak prefix from an entity tag.
func Unquote(tag string) string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "W/")
	return strings.Trim(tag, `"`)
}

// Matches reports whether an If-Match or If-None-Match header value names
// sum. The header may be "*" or a comma separated list of tags.
func Matches(header, sum string) bool {
	if strings.TrimSpace(header) == "*" {
		return sum != ""
	}
	for tag := range strings.SplitSeq(header, ",") {
		if t := Unquote(tag); t != "" && t == sum {
			return true
		}
	}
	return false
}
