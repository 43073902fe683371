package random

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// Draw selects up to k elements from pool uniformly at random without
// replacement: pick a uniform index into the remainder, remove it, append it.
// When k exceeds the pool size the result is a permutation of the whole pool.
// intn may be nil, in which case the system CSPRNG is used; tests inject a
// seeded source.
func Draw[T any](pool []T, k int, intn func(n int) int) []T {
	if intn == nil {
		intn = cryptoIntn
	}
	if k < 0 {
		k = 0
	}
	remaining := make([]T, len(pool))
	copy(remaining, pool)

	if k > len(remaining) {
		k = len(remaining)
	}
	winners := make([]T, 0, k)
	for len(winners) < k {
		i := intn(len(remaining))
		winners = append(winners, remaining[i])
		remaining[i] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}
	return winners
}

// cryptoIntn returns a uniform int in [0, n) from crypto/rand, falling back
// to math/rand only if the entropy source fails.
func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mrand.Intn(n)
	}
	return int(v.Int64())
}
