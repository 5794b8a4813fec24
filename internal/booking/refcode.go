package booking

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// Reference code prefixes for drafts and confirmed bookings.
const (
	DraftRefPrefix   = "DR"
	BookingRefPrefix = "BK"
)

// NewReferenceCode returns a human-shareable code of the form
// PREFIX-YYYYMMDDHHMMSS-XXXXXX where the suffix is three random bytes
// hex encoded.  The format is not collision-proof on its own; the
// reference_code columns are UNIQUE and inserts retry on a duplicate,
// which is what actually guarantees uniqueness.
func NewReferenceCode(prefix string) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to
		// the timestamp alone and let the unique index force a retry.
		return prefix + "-" + time.Now().UTC().Format("20060102150405")
	}
	return prefix + "-" +
		time.Now().UTC().Format("20060102150405") + "-" +
		strings.ToUpper(hex.EncodeToString(buf))
}
