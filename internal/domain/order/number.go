package order

import (
	"encoding/binary"
	"encoding/hex"
	"math/rand/v2"
	"strings"
	"time"
)

const numberPrefix = "ECO"

// NewNumber generates a candidate order number: the ECO prefix, the UTC date
// as YYYYMMDD, and 8 uppercase hexadecimal characters. The suffix only needs
// to be unlikely to collide, not unguessable; uniqueness is enforced by the
// repository, and callers regenerate on conflict.
func NewNumber(now time.Time) string {
	var suffix [4]byte
	binary.BigEndian.PutUint32(suffix[:], rand.Uint32())

	var b strings.Builder
	b.Grow(len(numberPrefix) + 8 + 8)
	b.WriteString(numberPrefix)
	b.WriteString(now.UTC().Format("20060102"))
	b.WriteString(strings.ToUpper(hex.EncodeToString(suffix[:])))
	return b.String()
}
