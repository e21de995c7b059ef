package feed

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"github.com/pkg/errors"
)

// SeedFromString hashes s into a 64-bit seed.
func SeedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// Derive returns a child seed of base for label. Labels should be stable,
// e.g. "entry:42" or "reshuffle:3".
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// Seed is the textual seed of a feed plus its hashed root.
type Seed struct {
	Text string
	root uint64
}

// NewSeed rejects empty text.
func NewSeed(text string) (Seed, error) {
	if text == "" {
		return Seed{}, errors.New("seed text must not be empty")
	}
	return Seed{Text: text, root: SeedFromString(text)}, nil
}

// Stream returns the deterministic stream for label.
func (s Seed) Stream(label string) *Stream {
	return newStream(Derive(s.root, label))
}

type splitMix64 struct{ state uint64 }

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Stream is a SplitMix64 generator that can fork labelled children.
type Stream struct {
	base uint64
	sm   splitMix64
}

func newStream(seed uint64) *Stream {
	return &Stream{base: seed, sm: splitMix64{state: seed}}
}

// Intn returns a value in [0, n). It returns 0 for n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.sm.next() % uint64(n))
}

// Between returns a value in [lo, hi].
func (s *Stream) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 { return float64(s.sm.next()>>11) / (1 << 53) }

func (s *Stream) Uint64() uint64 { return s.sm.next() }

// Child forks a stream from this stream's seed, independent of how far this
// stream has advanced.
func (s *Stream) Child(label string) *Stream { return newStream(Derive(s.base, label)) }

// Pick returns one of options.
func Pick[T any](s *Stream, options []T) T {
	var zero T
	if len(options) == 0 {
		return zero
	}
	return options[s.Intn(len(options))]
}
