package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable prints an aligned per-category table followed by the overall row.
func (s *Snapshot) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Contrastive accuracy (%s)\n", s.Mode); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Category\tCorrect\tTotal\tAccuracy")
	for _, r := range s.ByCategory {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\n", r.Key, r.Correct, r.Total, r.Accuracy*100)
	}
	fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\n", "total", s.Overall.Correct, s.Overall.Total, s.Overall.Accuracy*100)
	return tw.Flush()
}
