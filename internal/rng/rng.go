package rng

// Generator provides a simple random number
// *math/rand.Rand satisfies this interface, which is useful for seeded tests
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}
