package core

import "math/rand/v2"

// NewRand returns a deterministic PCG-backed generator for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// DeriveSeed mixes a base seed with a list of stream identifiers (for example
// a density index and a trial index) into an independent child seed. The
// result depends only on its inputs, so parallel callers get reproducible,
// uncorrelated streams regardless of scheduling.
func DeriveSeed(base int64, stream ...int) int64 {
	h := uint64(base)
	for _, s := range stream {
		h = splitmix64(h ^ (uint64(s) + 0x9e3779b97f4a7c15))
	}
	return int64(splitmix64(h))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
