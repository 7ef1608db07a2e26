package contrastive

import (
	"bufio"
	"fmt"
	"io"
)

// WritePlaintext flattens entries into two parallel line-oriented streams for
// an external scorer. For each entry it writes the source next to the
// reference, then the source again next to every contrastive sentence, in
// declared order. The scorer's output is the score stream read by tally.
func WritePlaintext(entries []Entry, src, tgt io.Writer) (int, error) {
	sw := bufio.NewWriter(src)
	tw := bufio.NewWriter(tgt)

	lines := 0
	emit := func(s, t string) error {
		if _, err := fmt.Fprintln(sw, s); err != nil {
			return fmt.Errorf("failed to write source line: %w", err)
		}
		if _, err := fmt.Fprintln(tw, t); err != nil {
			return fmt.Errorf("failed to write target line: %w", err)
		}
		lines++
		return nil
	}

	for _, e := range entries {
		if err := emit(e.Source, e.Reference); err != nil {
			return lines, err
		}
		for _, er := range e.Errors {
			if err := emit(e.Source, er.Contrastive); err != nil {
				return lines, err
			}
		}
	}

	if err := sw.Flush(); err != nil {
		return lines, fmt.Errorf("failed to flush source: %w", err)
	}
	if err := tw.Flush(); err != nil {
		return lines, fmt.Errorf("failed to flush target: %w", err)
	}
	return lines, nil
}
