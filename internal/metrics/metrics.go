package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	IncidentsParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parksafe_incidents_parsed_total",
			Help: "Incident rows successfully parsed from the crime extract",
		},
	)

	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parksafe_rows_skipped_total",
			Help: "Source rows skipped during ingestion",
		},
		[]string{"reason"},
	)

	CoordinateAnomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parksafe_coordinate_anomalies_total",
			Help: "Incidents whose UTM coordinates could not be normalized",
		},
		[]string{"reason"},
	)

	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parksafe_fetch_attempts_total",
			Help: "Dataset download attempts by HTTP status",
		},
		[]string{"status"},
	)
)

// WriteTextfile dumps the default registry in Prometheus text format, for
// the node-exporter textfile collector. A batch run has no endpoint to
// scrape, so this is the export path.
func WriteTextfile(path string) error {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
