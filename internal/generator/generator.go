// Package generator produces shuffled token streams.
package generator

import (
	"math/rand"
	"time"
)

// Generator shuffles vocabularies into streams.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Stream returns a new stream drawing every word once in random order.
func (g *Generator) Stream(words []string) *Stream {
	order := g.rnd.Perm(len(words))
	return &Stream{words: words, order: order}
}

// Stream yields tokens without replacement until exhausted. It cannot be
// rewound; ask the Generator for a new one instead.
type Stream struct {
	words   []string
	order   []int
	pos     int
	pending []string
}

// Next returns the next token, or false when the stream is exhausted.
func (s *Stream) Next() (string, bool) {
	if n := len(s.pending); n > 0 {
		word := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return word, true
	}
	if s.pos >= len(s.order) {
		return "", false
	}
	word := s.words[s.order[s.pos]]
	s.pos++
	return word, true
}

// Unread pushes a token back so the next call to Next returns it.
func (s *Stream) Unread(token string) {
	s.pending = append(s.pending, token)
}

// Remaining returns the number of tokens left.
func (s *Stream) Remaining() int {
	return len(s.order) - s.pos + len(s.pending)
}
