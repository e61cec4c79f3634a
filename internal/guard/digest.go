package guard

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// digestSalt is appended to the password before hashing. The digest is a
// deterrent against casual credential disclosure, not a security boundary;
// the stored credential format is a fixed-length hex string.
const digestSalt = "crm_salt_2024"

// DigestFunc computes the stored-form digest of a password.
type DigestFunc func(password string) string

// Digest returns the hex-encoded SHA-256 of the password concatenated with
// the fixed salt. This is the default and only recommended digest.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password + digestSalt))
	return hex.EncodeToString(sum[:])
}

// LegacyDigest is an order-sensitive polynomial rolling hash over the salted
// password, hex-encoded. It exists only for credential stores written by
// runtimes without a SHA-256 primitive and is NOT cryptographic: collisions
// are easy to construct and the output is at most 32 bits. Select it
// explicitly with WithDigest; it is never used by default.
func LegacyDigest(password string) string {
	str := password + digestSalt
	if len(str) == 0 {
		return "0"
	}
	var h int32
	for _, c := range str {
		h = (h << 5) - h + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 16)
}
