// Package requestid generates the ids attached to outbound requests and
// echoed by the mock server, so one dispatch can be followed through logs.
package requestid

import (
	crand "crypto/rand"
	"strings"
	"time"
)

const DefaultHeaderKey = "X-Request-Id"

// Len is the length of every generated id: a 20 digit microsecond timestamp
// followed by randomLen random digits.
const Len = 20 + randomLen

const (
	stampLayout = "20060102150405.000000"
	randomLen   = 8
)

// ResolveHeaderKey trims headerKey and falls back to DefaultHeaderKey when
// nothing is left.
func ResolveHeaderKey(headerKey string) string {
	if v := strings.TrimSpace(headerKey); v != "" {
		return v
	}
	return DefaultHeaderKey
}

// Gen returns a new id. Ids sort by creation time.
func Gen() string {
	return GenAt(time.Now())
}

// GenAt is Gen with an explicit timestamp.
func GenAt(now time.Time) string {
	buf := now.AppendFormat(make([]byte, 0, Len+1), stampLayout)
	dot := len("20060102150405")
	buf = append(buf[:dot], buf[dot+1:]...)
	return string(appendRandomDigits(buf, randomLen))
}

// appendRandomDigits appends n uniformly distributed decimal digits. Bytes
// of 250 and above are rejected to avoid modulo bias.
func appendRandomDigits(dst []byte, n int) []byte {
	var pool [16]byte
	for n > 0 {
		if _, err := crand.Read(pool[:]); err != nil {
			for ; n > 0; n-- {
				dst = append(dst, '0')
			}
			return dst
		}
		for _, b := range pool {
			if n == 0 {
				break
			}
			if b >= 250 {
				continue
			}
			dst = append(dst, '0'+b%10)
			n--
		}
	}
	return dst
}
