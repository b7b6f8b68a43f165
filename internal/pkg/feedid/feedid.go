// Package feedid generates identifiers for feed validation runs.
package feedid

import (
	crypto_rand "crypto/rand"
	"strings"
	"time"
)

// Base62 alphabet: 0-9, A-Z, a-z
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	// Prefix is prepended to every feed run id
	Prefix = "feed"

	timestampLength = 6
	randomLength    = 16
)

// EncodeTimestamp encodes Unix seconds as a 6-character base62 string that
// sorts lexicographically in time order.
func EncodeTimestamp(seconds int64) string {
	n := seconds
	out := make([]byte, timestampLength)
	for i := timestampLength - 1; i >= 0; i-- {
		out[i] = alphabet[n%62]
		n /= 62
	}
	return string(out)
}

// randomString draws base62 characters from crypto/rand, rejecting 6-bit
// values above the alphabet so every character is equally likely.
func randomString(length int) string {
	buf := make([]byte, length+length/4+4)
	var b strings.Builder
	b.Grow(length)

	for b.Len() < length {
		if _, err := crypto_rand.Read(buf); err != nil {
			panic("feedid: reading random bytes: " + err.Error())
		}
		for _, v := range buf {
			v &= 0x3f
			if v >= 62 {
				continue
			}
			b.WriteByte(alphabet[v])
			if b.Len() == length {
				break
			}
		}
	}
	return b.String()
}

// New returns a time-sortable id such as "feed_1rK5iqA3kd9QmZ0pLx2Bv9".
func New() string {
	return NewAt(time.Now())
}

// NewAt returns an id whose timestamp part encodes t
func NewAt(t time.Time) string {
	return Prefix + "_" + EncodeTimestamp(t.Unix()) + randomString(randomLength)
}

// Valid reports whether id has the shape produced by New
func Valid(id string) bool {
	rest, ok := strings.CutPrefix(id, Prefix+"_")
	if !ok || len(rest) != timestampLength+randomLength {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if strings.IndexByte(alphabet, rest[i]) < 0 {
			return false
		}
	}
	return true
}

// Time extracts the creation time encoded in id
func Time(id string) (time.Time, bool) {
	if !Valid(id) {
		return time.Time{}, false
	}
	encoded := id[len(Prefix)+1 : len(Prefix)+1+timestampLength]
	var seconds int64
	for i := 0; i < len(encoded); i++ {
		seconds = seconds*62 + int64(strings.IndexByte(alphabet, encoded[i]))
	}
	return time.Unix(seconds, 0).UTC(), true
}
