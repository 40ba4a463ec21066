// Package wordlist loads vocabularies from files and embedded resources.
package wordlist

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed data/*.txt
var builtin embed.FS

// LoadWords reads whitespace-separated words from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads whitespace-separated words from r.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Builtin returns an embedded vocabulary by name.
func Builtin(name string) ([]string, bool) {
	file, err := builtin.Open(path.Join("data", name+".txt"))
	if err != nil {
		return nil, false
	}
	defer func() {
		_ = file.Close()
	}()
	words, err := ReadWords(file)
	if err != nil {
		return nil, false
	}
	return words, true
}

// BuiltinNames lists the embedded vocabularies.
func BuiltinNames() []string {
	entries, err := builtin.ReadDir("data")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}
