package tally

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrScoresExhausted is returned when the score stream ends before every
// reference sentence and contrastive variant has been scored.
var ErrScoresExhausted = errors.New("score stream exhausted")

// ScoreSource yields one score per call, in reference order.
type ScoreSource interface {
	Next() (float64, error)
}

// ScoreReader parses a line-oriented stream of floating-point scores.
type ScoreReader struct {
	sc   *bufio.Scanner
	line int
}

func NewScoreReader(r io.Reader) *ScoreReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ScoreReader{sc: sc}
}

// Next returns the score on the next line.
func (s *ScoreReader) Next() (float64, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return 0, fmt.Errorf("failed to read score line %d: %w", s.line+1, err)
		}
		return 0, fmt.Errorf("line %d: %w", s.line+1, ErrScoresExhausted)
	}
	s.line++
	text := strings.TrimSpace(s.sc.Text())
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse score on line %d (%q): %w", s.line, text, err)
	}
	return v, nil
}

// Line is the number of lines consumed so far.
func (s *ScoreReader) Line() int { return s.line }

// Trailing drains the stream and counts the lines left unread.
func (s *ScoreReader) Trailing() (int, error) {
	n := 0
	for s.sc.Scan() {
		n++
	}
	if err := s.sc.Err(); err != nil {
		return n, fmt.Errorf("failed to read trailing scores: %w", err)
	}
	return n, nil
}
