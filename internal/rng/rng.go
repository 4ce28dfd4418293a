// Package rng provides seedable, reproducible random sources.
package rng

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// Func adapts a plain function to Source. Handy for scripted draws.
type Func func() float64

// Float64 implements Source.
func (f Func) Float64() float64 {
	return f()
}

// Mulberry32 is a 32-bit state generator. Identical seeds give identical
// sequences on every platform.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 returns a generator starting from seed.
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Float64 implements Source.
func (m *Mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// HashSeed folds a seed into 32 bits. Text that parses as a base-10 integer
// is taken as that number (two's complement for negatives), so the seed "42"
// gives the same stream as NewMulberry32(42). Any other text accumulates
// hash*31 + UTF-16 code unit.
func HashSeed(seed string) uint32 {
	trimmed := strings.TrimSpace(seed)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return uint32(n)
	}
	var hash uint32
	for _, unit := range utf16Units(seed) {
		hash = hash*31 + uint32(unit)
	}
	return hash
}

// FromSeed returns a Mulberry32 generator for the given seed.
func FromSeed(seed string) *Mulberry32 {
	return NewMulberry32(HashSeed(seed))
}

// ResolveSeed returns seed unchanged, or a fresh random seed when it is empty.
func ResolveSeed(seed string) string {
	if seed != "" {
		return seed
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return strconv.FormatUint(uint64(rnd.Uint32()), 10)
}

// Intn returns a uniform integer in [0, n). n <= 0 yields 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(src.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Between returns a uniform integer in [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + Intn(src, hi-lo+1)
}

func utf16Units(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			units = append(units, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		units = append(units, uint16(r))
	}
	return units
}
