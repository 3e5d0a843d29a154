package producer

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Source is the single randomness stream behind a synthesis run. Both the
// uniform helpers and the faker are derived from one seed, so a run can be
// replayed by reusing Seed(). A Source is not safe for concurrent use.
type Source struct {
	seed  uint64
	rng   *rand.Rand
	faker *gofakeit.Faker
}

// NewSource returns a Source for seed. A zero seed picks a random one.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		seed = randomSeed()
	}
	return &Source{
		seed:  seed,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		faker: gofakeit.New(seed),
	}
}

func randomSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	if s := binary.LittleEndian.Uint64(b[:]); s != 0 {
		return s
	}
	return 1
}

// Seed returns the effective seed.
func (s *Source) Seed() uint64 { return s.seed }

// IntN returns a uniform int in [0, n). It returns 0 when n <= 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// IntRange returns a uniform int in [min, max] inclusive.
func (s *Source) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.IntN(max-min+1)
}

// Float returns a uniform float in [min, max).
func (s *Source) Float(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// Pick returns a uniformly chosen element of pool.
func (s *Source) Pick(pool []string) string {
	return pool[s.IntN(len(pool))]
}

// Read fills p with pseudo-random bytes from the seeded stream.
func (s *Source) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], s.rng.Uint64())
		copy(p[i:], b[:])
	}
	return len(p), nil
}

// Faker exposes the seeded faker for realistic person, place and company values.
func (s *Source) Faker() *gofakeit.Faker { return s.faker }

func (s *Source) sentence(wordCount int) string {
	words := make([]string, wordCount)
	for i := range words {
		words[i] = s.Pick(loremWords)
	}
	out := strings.Join(words, " ")
	if len(out) > 0 {
		out = strings.ToUpper(out[:1]) + out[1:]
	}
	return out
}

func (s *Source) paragraph() string {
	parts := make([]string, 3+s.IntN(5))
	for i := range parts {
		parts[i] = s.sentence(5+s.IntN(10)) + "."
	}
	return strings.Join(parts, " ")
}

// price returns an amount in [min, max) truncated to cents.
func (s *Source) price(min, max float64) float64 {
	return float64(int(s.Float(min, max)*100)) / 100
}
