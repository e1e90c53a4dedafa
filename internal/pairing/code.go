// Package pairing holds the two pure building blocks of the rendezvous
// scheme: high-entropy pairing code generation and deterministic room
// derivation. Both installations sharing a code compute the same room
// without any coordination.
package pairing

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
)

// ErrEntropyUnavailable is returned when the OS CSPRNG cannot supply random
// bytes. Fatal for the generate call only; the caller keeps running.
var ErrEntropyUnavailable = errors.New("secure entropy source unavailable")

const (
	rawCodeBytes  = 16 // 128 bits drawn from the CSPRNG
	codeChars     = 20 // 20 base32 chars kept = 100 bits of entropy
	codeGroupSize = 4
)

var base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateCode mints a fresh pairing secret: 100 bits of CSPRNG output in
// lowercase base32 (a-z, 2-7, no 0/O or 1/I/l confusion), grouped as
// "xxxx-xxxx-xxxx-xxxx-xxxx" for readable logs and debugging.
func GenerateCode() (string, error) {
	raw := make([]byte, rawCodeBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}

	encoded := strings.ToLower(base32NoPad.EncodeToString(raw))
	chars := encoded[:codeChars]

	groups := make([]string, 0, codeChars/codeGroupSize)
	for i := 0; i < codeChars; i += codeGroupSize {
		groups = append(groups, chars[i:i+codeGroupSize])
	}
	return strings.Join(groups, "-"), nil
}

// ValidCodeFormat reports whether s looks like an opaque pairing code we
// are willing to store: hyphen groups are tolerated, the remaining payload
// must be base32 and long enough to carry real entropy. No semantic
// validation beyond that; imported codes are opaque blobs.
func ValidCodeFormat(s string) bool {
	stripped := strings.ReplaceAll(s, "-", "")
	if len(stripped) < codeChars {
		return false
	}
	for _, r := range stripped {
		if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
			return false
		}
	}
	return true
}
