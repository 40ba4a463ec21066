package generator

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s *Stream) []string {
	var out []string
	for {
		w, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, w)
	}
}

func TestStreamDrawsWithoutReplacement(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	s := NewSeeded(1).Stream(words)
	assert.Equal(t, len(words), s.Remaining())

	got := drain(s)
	sort.Strings(got)
	want := append([]string(nil), words...)
	sort.Strings(want)
	assert.Equal(t, want, got)

	_, ok := s.Next()
	assert.False(t, ok, "exhausted stream stays exhausted")
	assert.Zero(t, s.Remaining())
}

func TestStreamSeedIsDeterministic(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e", "f", "g"}
	assert.Equal(t, drain(NewSeeded(42).Stream(words)), drain(NewSeeded(42).Stream(words)))
}

func TestStreamUnread(t *testing.T) {
	s := NewSeeded(3).Stream([]string{"one", "two"})
	first, ok := s.Next()
	require.True(t, ok)
	s.Unread(first)
	assert.Equal(t, 2, s.Remaining())

	again, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, first, again)
}

func TestEmptyStream(t *testing.T) {
	s := New().Stream(nil)
	_, ok := s.Next()
	assert.False(t, ok)
}
