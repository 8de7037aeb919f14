// Package reqnum produces human-readable approval request numbers of the
// form APR-YYYYMM-NNNNN. Uniqueness is the caller's job: pair each
// candidate with a store lookup and regenerate on collision.
package reqnum

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

const suffixSpace = 100000

// Generate returns APR-<year><zero-padded month>-<5-digit suffix> for
// the given instant. The suffix is uniformly random.
func Generate(now time.Time) string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	n := binary.BigEndian.Uint64(b[:]) % suffixSpace
	return fmt.Sprintf("APR-%04d%02d-%05d", now.Year(), int(now.Month()), n)
}
