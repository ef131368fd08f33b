// Package model defines shared data structures.
package model

import "time"

// Operation names recorded in history.
const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
	OpBreak   = "break"
)

// Config carries the settings shared by the workbench and the CLI
// commands.
type Config struct {
	Lang      string
	Cipher    string
	Alphabet  string
	MaxKeyLen int
	Workers   int
}

// HistoryRecord is one logged cipher operation. Distance is nil for
// plain transforms, which have no fit score. InputLen counts the
// symbols processed: runes for text operations, bytes in byte mode.
type HistoryRecord struct {
	ID            int64
	At            time.Time
	Op            string
	Cipher        string
	Lang          string
	Key           string
	Distance      *float64
	LowConfidence bool
	InputLen      int
}

// HistoryFilter selects history records for listing.
type HistoryFilter struct {
	Op     string
	Cipher string
	Since  *time.Time
	Last   int
}
