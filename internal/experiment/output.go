package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// WriteConvergence writes one loss per epoch under an "Epoch,Loss" header.
func WriteConvergence(path string, losses []float64) error {
	rows := make([][]string, 0, len(losses)+1)
	rows = append(rows, []string{"Epoch", "Loss"})
	for i, loss := range losses {
		rows = append(rows, []string{strconv.Itoa(i), formatFloat(loss)})
	}
	return writeCSV(path, rows)
}

// WriteSummary writes one row per model with its final training loss and
// test RMSE on clean and attacked data.
func WriteSummary(path string, results []RunResult) error {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, []string{"Model", "Run", "Seed", "FinalLoss", "CleanRMSE", "AttackedRMSE", "Seconds"})
	for _, r := range results {
		final := ""
		if len(r.Loss) > 0 {
			final = formatFloat(r.Loss[len(r.Loss)-1])
		}
		rows = append(rows, []string{
			r.Kind,
			strconv.Itoa(r.Index),
			strconv.FormatUint(r.Seed, 10),
			final,
			formatFloat(r.CleanRMSE),
			formatFloat(r.AttackedRMSE),
			formatSeconds(r.Elapsed),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}
