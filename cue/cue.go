// Package cue reads subtitle cues for the selector.
package cue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMalformed is returned for input that cannot be parsed as cues
	ErrMalformed = errors.New("malformed cue input")

	// ErrNegativeDuration is returned for a cue that ends before it starts
	ErrNegativeDuration = errors.New("cue ends before it starts")

	// ErrUnknownFormat is returned by Load for unsupported file extensions
	ErrUnknownFormat = errors.New("unknown cue file format")
)

// Cue is one subtitle cue. Times are in milliseconds.
type Cue struct {
	Index   int    `json:"index"`
	StartMS int64  `json:"start"`
	EndMS   int64  `json:"end"`
	Text    string `json:"text"`
}

// Start returns the start time in milliseconds
func (c Cue) Start() int64 { return c.StartMS }

// End returns the end time in milliseconds
func (c Cue) End() int64 { return c.EndMS }

// Duration returns the length of the cue in milliseconds
func (c Cue) Duration() int64 { return c.EndMS - c.StartMS }

func (c Cue) String() string {
	return fmt.Sprintf("#%d %s --> %s", c.Index, FormatTimestamp(c.StartMS), FormatTimestamp(c.EndMS))
}

// Validate checks the cue's time range
func (c Cue) Validate() error {
	if c.EndMS < c.StartMS {
		return fmt.Errorf("cue %d (%s > %s): %w",
			c.Index, FormatTimestamp(c.StartMS), FormatTimestamp(c.EndMS), ErrNegativeDuration)
	}
	return nil
}

// Load reads cues from a file, choosing the parser by extension
func Load(path string) ([]Cue, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var cues []Cue
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".srt":
		cues, err = ParseSRT(fh)
	case ".json":
		cues, err = ParseJSON(fh)
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cues, nil
}

// FormatTimestamp formats milliseconds as HH:MM:SS,mmm
func FormatTimestamp(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	h := ms / 3600000
	m := ms / 60000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%s%02d:%02d:%02d,%03d", sign, h, m, s, ms%1000)
}
