package utils

import "math/rand"

// NewTrackNum returns a random 10-digit tracking number for a delivery.
func NewTrackNum() int64 {
	return 1_000_000_000 + rand.Int63n(9_000_000_000)
}
