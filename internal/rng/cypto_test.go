package rng

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrypto_Intn(t *testing.T) {
	a := assert.New(t)

	var g Generator = Crypto{}
	found := make(map[int]bool)
	// it's possible this could fail, but not likely
	for i := 0; i < 1000; i++ {
		found[g.Intn(4)] = true
	}

	a.Len(found, 4)
	for i := 0; i < 4; i++ {
		a.True(found[i])
	}
}

func TestGenerator_seeded(t *testing.T) {
	var g1 Generator = rand.New(rand.NewSource(7)) // nolint:gosec
	var g2 Generator = rand.New(rand.NewSource(7)) // nolint:gosec

	for i := 0; i < 20; i++ {
		assert.Equal(t, g1.Intn(100), g2.Intn(100))
	}
}
