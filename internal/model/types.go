// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	// Text names a built-in or imported vocabulary.
	Text string
	// File overrides Text with a vocabulary file on disk.
	File  string
	Sound bool
	// Seed fixes the shuffle order when non-zero.
	Seed int64
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level string
	File  string
}

// TextInfo describes an imported vocabulary.
type TextInfo struct {
	Name       string
	SourcePath string
	Tokens     int
	ImportedAt time.Time
}
