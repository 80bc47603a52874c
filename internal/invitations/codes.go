package invitations

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	codeLength      = 8
	timestampDigits = 4
	base36Alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewCode returns an 8 character lowercase base-36 code made of the last 4
// digits of the millisecond timestamp followed by 4 random digits.
// Invitation tokens and link codes each get their own call.
func NewCode(now time.Time) (string, error) {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	if len(ts) < timestampDigits {
		ts = strings.Repeat("0", timestampDigits-len(ts)) + ts
	}

	var builder strings.Builder
	builder.Grow(codeLength)
	builder.WriteString(ts[len(ts)-timestampDigits:])

	max := big.NewInt(int64(len(base36Alphabet)))
	for i := timestampDigits; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(base36Alphabet[n.Int64()])
	}

	return builder.String(), nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
