package cue

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const maxLineLength = 1024 * 1024

// ParseSRT reads SubRip cues. Index lines are optional, "." is accepted as
// the millisecond separator and CRLF line endings and a leading BOM are
// ignored. Cues without an index are numbered by position.
//
// Cue text may contain blank lines. After a blank line the next cue starts
// only at a timing line, or at an index line directly followed by one;
// anything else continues the current cue's text.
func ParseSRT(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var (
		cues     []Cue
		current  *Cue
		text     []string
		held     []string // lines after a blank inside a cue, not yet placed
		index    int
		hasIndex bool
		lineNo   int
	)

	finish := func() error {
		current.Text = strings.Join(text, "\n")
		if err := current.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		cues = append(cues, *current)
		current = nil
		text = text[:0]
		held = held[:0]
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if current != nil {
			if trimmed == "" {
				held = append(held, line)
				continue
			}
			if len(held) == 0 {
				text = append(text, line)
				continue
			}

			if strings.Contains(trimmed, "-->") {
				if err := finish(); err != nil {
					return nil, err
				}
				// the timing line starts the next cue below
			} else if n, err := strconv.Atoi(trimmed); err == nil && !hasIndex {
				index = n
				hasIndex = true
				held = append(held, line)
				continue
			} else {
				text = append(text, held...)
				text = append(text, line)
				held = held[:0]
				hasIndex = false
				continue
			}
		}

		switch {
		case trimmed == "":
			continue

		case strings.Contains(trimmed, "-->"):
			start, end, err := parseTiming(trimmed)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if !hasIndex {
				index = len(cues) + 1
			}
			current = &Cue{Index: index, StartMS: start, EndMS: end}
			hasIndex = false

		case !hasIndex:
			n, err := strconv.Atoi(trimmed)
			if err != nil {
				return nil, fmt.Errorf("line %d: expected cue index or timing, got %q: %w", lineNo, trimmed, ErrMalformed)
			}
			index = n
			hasIndex = true

		default:
			return nil, fmt.Errorf("line %d: expected timing after cue index %d: %w", lineNo, index, ErrMalformed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if current != nil {
		if err := finish(); err != nil {
			return nil, err
		}
	}
	if hasIndex {
		return nil, fmt.Errorf("line %d: cue index %d without timing: %w", lineNo, index, ErrMalformed)
	}

	return cues, nil
}

// parseTiming parses "00:00:01,000 --> 00:00:02,500", ignoring any position
// settings after the end time.
func parseTiming(line string) (int64, int64, error) {
	left, right, _ := strings.Cut(line, "-->")
	endFields := strings.Fields(right)
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end time in %q: %w", line, ErrMalformed)
	}

	start, err := ParseTimestamp(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp parses HH:MM:SS,mmm (or HH:MM:SS.mmm) into milliseconds.
// The fraction may have one to three digits.
func ParseTimestamp(s string) (int64, error) {
	malformed := func() (int64, error) {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, ErrMalformed)
	}

	clock, frac, hasFrac := strings.Cut(strings.Replace(s, ".", ",", 1), ",")
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return malformed()
	}

	var fields [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return malformed()
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return malformed()
	}

	var ms int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 3 {
			return malformed()
		}
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || n < 0 {
			return malformed()
		}
		for i := len(frac); i < 3; i++ {
			n *= 10
		}
		ms = n
	}

	return fields[0]*3600000 + fields[1]*60000 + fields[2]*1000 + ms, nil
}

// ParseJSON reads a JSON array of cues with times in milliseconds
func ParseJSON(r io.Reader) ([]Cue, error) {
	var cues []Cue
	if err := json.NewDecoder(r).Decode(&cues); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for i := range cues {
		if cues[i].Index == 0 {
			cues[i].Index = i + 1
		}
		if err := cues[i].Validate(); err != nil {
			return nil, err
		}
	}
	return cues, nil
}
