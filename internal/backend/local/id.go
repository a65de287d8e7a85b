package local

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	idSuffixLen = 5
	base36      = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// genID returns a base36 millisecond timestamp, a dash and a short random
// base36 suffix, e.g. "m1x3k9d2-4fq0z".
func genID(now time.Time) string {
	var suffix [idSuffixLen]byte
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + string(suffix[:])
}
