package recorder

import (
	"encoding/csv"
	"fmt"
	"os"

	"infa-monitor/internal/core/check"
)

// Recorder appends host metric rows to a pipe-delimited CSV file, the format
// the usage dashboard reads. One row per numeric item:
// Timestamp|Metric|Value|Threshold.
type Recorder struct {
	File string
}

var header = []string{"Timestamp", "Metric", "Value", "Threshold"}

func (r *Recorder) Record(snap check.Snapshot) error {
	if r.File == "" {
		return nil
	}

	_, statErr := os.Stat(r.File)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open usage file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '|'

	if writeHeader {
		if err := w.Write(header); err != nil {
			return err
		}
	}

	ts := snap.TakenAt.Format("2006.01.02 15:04:05")
	for _, it := range snap.Items {
		if !it.Kind.Numeric() || it.Status == check.StatusUnknown {
			continue
		}
		row := []string{
			ts,
			it.Name,
			fmt.Sprintf("%.2f", it.Value),
			fmt.Sprintf("%.2f", it.Threshold),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
