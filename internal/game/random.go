package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

func seededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

// layoutRNG keys terrain generation on the map id so every run of the same
// map lays out identically.
func layoutRNG(mapID string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(mapID))
	seed := int64(h.Sum64()) // #nosec G115
	return seededRNG(seed)
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
