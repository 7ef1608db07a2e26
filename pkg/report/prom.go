package report

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric names in the text exposition.
const (
	metricAccuracy = "lingeval_accuracy"
	metricCorrect  = "lingeval_correct"
	metricTotal    = "lingeval_total"
)

// WritePrometheus renders the snapshot in the Prometheus text exposition
// format, suitable for a node_exporter textfile collector or a pushgateway.
func (s *Snapshot) WritePrometheus(w io.Writer) error {
	accuracy := family(metricAccuracy, "Fraction of contrastive pairs where the reference scored better.")
	correct := family(metricCorrect, "Contrastive pairs where the reference scored better.")
	total := family(metricTotal, "Contrastive pairs evaluated.")

	add := func(r Row, labels ...*dto.LabelPair) {
		labels = append(labels, label("mode", s.Mode), label("run_id", s.RunID))
		accuracy.Metric = append(accuracy.Metric, gauge(r.Accuracy, labels))
		correct.Metric = append(correct.Metric, gauge(float64(r.Correct), labels))
		total.Metric = append(total.Metric, gauge(float64(r.Total), labels))
	}

	add(s.Overall, label("dimension", "overall"))
	for _, r := range s.ByCategory {
		add(r, label("dimension", "category"), label("bucket", r.Key))
	}
	for _, r := range s.ByDistance {
		add(r, label("dimension", "distance"), label("bucket", r.Key))
	}
	for _, r := range s.ByFrequency {
		add(r, label("dimension", "frequency"), label("bucket", r.Key))
	}
	for _, r := range s.ByFrequencyAndDistance {
		add(r, label("dimension", "frequency_distance"),
			label("frequency", r.Frequency), label("distance", r.Distance))
	}

	for _, mf := range []*dto.MetricFamily{accuracy, correct, total} {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func family(name, help string) *dto.MetricFamily {
	typ := dto.MetricType_GAUGE
	return &dto.MetricFamily{Name: &name, Help: &help, Type: &typ}
}

func gauge(v float64, labels []*dto.LabelPair) *dto.Metric {
	pairs := make([]*dto.LabelPair, len(labels))
	copy(pairs, labels)
	return &dto.Metric{Label: pairs, Gauge: &dto.Gauge{Value: &v}}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: &name, Value: &value}
}
