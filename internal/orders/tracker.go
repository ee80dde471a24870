package orders

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const trackerAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTrackerID returns the public id a customer uses to track an
// order: "PL-" + base-36 millis + "-" + 8 random base-36 chars.
// Collision odds are negligible for a single storefront; this is not a
// cryptographic guarantee.
func GenerateTrackerID() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	var b [8]byte
	for i := range b {
		b[i] = trackerAlphabet[rand.Intn(len(trackerAlphabet))]
	}
	return "PL-" + ts + "-" + string(b[:])
}
