// Package translit maps Chinese text to typeable Latin text.
package translit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

// ErrEncoding reports a source rune without a transliteration.
var ErrEncoding = errors.New("no transliteration for character")

// Class is the glyph class of a source rune.
type Class int

const (
	// Plain runes pass through unchanged.
	Plain Class = iota
	// Ideographic runes are replaced by their pinyin spelling.
	Ideographic
	// Punctuation runes are replaced by an ASCII punctuation mark.
	Punctuation
)

var punctuation = map[rune]rune{
	'。': '.',
	'，': ',',
	'！': '!',
	'‘': '\'',
	'’': '\'',
	'；': ';',
	'：': ':',
	'“': '"',
	'”': '"',
	'、': '\\',
	'《': '<',
	'》': '>',
	'？': '?',
	'（': '(',
	'）': ')',
}

// IsIdeographic reports whether r falls in one of the CJK ideograph blocks.
func IsIdeographic(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF,
		r >= 0x2E80 && r <= 0x2EFF,
		r >= 0x31C0 && r <= 0x31EF,
		r >= 0x2F00 && r <= 0x2FFF,
		r >= 0x3200 && r <= 0x32FF,
		r >= 0xF900 && r <= 0xFAFF:
		return true
	}
	return false
}

// Punct returns the ASCII replacement for a full-width punctuation rune.
func Punct(r rune) (rune, bool) {
	p, ok := punctuation[r]
	return p, ok
}

// Classify returns the glyph class of r.
func Classify(r rune) Class {
	if IsIdeographic(r) {
		return Ideographic
	}
	if _, ok := punctuation[r]; ok {
		return Punctuation
	}
	return Plain
}

// Lookup returns the toneless spelling of an ideographic rune.
type Lookup func(r rune) (string, bool)

// Result is a transliterated token.
type Result struct {
	// Weight counts the ideographic and punctuation runes of the source token.
	Weight   int
	Rendered string
}

// Transformer transliterates tokens with a phonetic dictionary.
type Transformer struct {
	lookup Lookup
}

// New returns a Transformer backed by the pinyin dictionary.
func New() *Transformer {
	return NewWithLookup(PinyinLookup())
}

// NewWithLookup returns a Transformer using a custom dictionary.
func NewWithLookup(lookup Lookup) *Transformer {
	return &Transformer{lookup: lookup}
}

// PinyinLookup spells a rune with its first toneless pinyin reading.
func PinyinLookup() Lookup {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	return func(r rune) (string, bool) {
		readings := pinyin.SinglePinyin(r, args)
		if len(readings) == 0 || readings[0] == "" {
			return "", false
		}
		return strings.ReplaceAll(readings[0], "ü", "v"), true
	}
}

// Transform transliterates a single token.
func (t *Transformer) Transform(token string) (Result, error) {
	var b strings.Builder
	b.Grow(len(token))
	weight := 0
	for _, r := range token {
		switch Classify(r) {
		case Ideographic:
			spelling, ok := t.lookup(r)
			if !ok {
				return Result{}, fmt.Errorf("%w: %q in %q", ErrEncoding, r, token)
			}
			b.WriteString(spelling)
			weight++
		case Punctuation:
			b.WriteRune(punctuation[r])
			weight++
		default:
			b.WriteRune(r)
		}
	}
	return Result{Weight: weight, Rendered: b.String()}, nil
}

// Validate transliterates every token and returns the first failure.
func (t *Transformer) Validate(tokens []string) error {
	for _, token := range tokens {
		if _, err := t.Transform(token); err != nil {
			return err
		}
	}
	return nil
}
