package pairing

import (
	"crypto/sha256"
	"strings"
)

const (
	// roomDomain versions the derivation. Bumping it on an algorithm
	// change guarantees old and new clients land in disjoint room spaces
	// instead of silently colliding.
	roomDomain = "quickcall-v1|"

	// RoomPrefix visually marks rooms minted by this app.
	RoomPrefix = "qc-"

	roomChars = 16 // 16 base32 chars of digest = 80 bits
)

// RoomID deterministically maps a pairing code to a conference room name.
// The code is treated as an opaque string: hyphens are stripped, nothing
// else is normalized, and any byte sequence (empty, huge, control chars,
// unicode) yields a valid "qc-" + 16 lowercase base32 chars identifier.
// Same input, same output, on every platform and forever within a domain
// version.
func RoomID(code string) string {
	clean := strings.ReplaceAll(code, "-", "")

	h := sha256.New()
	h.Write([]byte(roomDomain))
	h.Write([]byte(clean))
	digest := h.Sum(nil)

	encoded := strings.ToLower(base32NoPad.EncodeToString(digest))
	return RoomPrefix + encoded[:roomChars]
}
