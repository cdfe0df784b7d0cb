package guid

import (
	"encoding/hex"
	"path"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

const (
	// digestChars is the number of hex characters kept from the digest.
	digestChars = 16
	defaultName = "resource"
)

// Derive returns the identifier for payload under the logical name.
func Derive(payload []byte, name string) string {
	name = Normalize(name)

	h, _ := blake2b.New256(nil) // nil key never fails
	h.Write(payload)
	h.Write([]byte{0})
	h.Write([]byte(name))

	return hex.EncodeToString(h.Sum(nil))[:digestChars] + "-" + name
}

// DeriveString is Derive for string payloads.
func DeriveString(payload, name string) string {
	return Derive([]byte(payload), name)
}

// Normalize reduces a logical name to a URL-safe path segment: NFC form,
// last path element only, every rune outside [A-Za-z0-9._-] replaced by '_'.
func Normalize(name string) string {
	name = norm.NFC.String(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimRight(name, "/")
	if name != "" {
		name = path.Base(name)
	}
	if name == "." || name == ".." || name == "/" || name == "" {
		return defaultName
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}
