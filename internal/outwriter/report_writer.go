package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/schema"
)

// writeArtifact opens the destination (stdout when path is empty), hands it to
// render, and notes the artifact location on stderr for file output.
func writeArtifact(path, kind string, render func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(path)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := render(file); err != nil {
		return err
	}
	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "Wrote %s report to %s\n", kind, path)
	}
	return nil
}

// writeReportCSV writes the canonical report artifact: one row per store,
// exact column order, integer minutes.
func writeReportCSV(report *schema.Report, outputFile string) error {
	return writeArtifact(outputFile, "CSV", func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		if err := csvWriter.Write(schema.ReportHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, row := range report.Rows {
			record := []string{
				row.StoreID,
				strconv.FormatInt(row.UptimeLastHour, 10),
				strconv.FormatInt(row.UptimeLastDay, 10),
				strconv.FormatInt(row.UptimeLastWeek, 10),
				strconv.FormatInt(row.DowntimeLastHour, 10),
				strconv.FormatInt(row.DowntimeLastDay, 10),
				strconv.FormatInt(row.DowntimeLastWeek, 10),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		csvWriter.Flush()
		return csvWriter.Error()
	})
}

// writeReportJSON writes the report, including flags and skip metadata.
func writeReportJSON(report *schema.Report, outputFile string) error {
	return writeArtifact(outputFile, "JSON", func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		return nil
	})
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	// helper format string and closure for ratio formatting
	numFmt := "%.*f%%"
	fmtRatio := func(v float64) string {
		return fmt.Sprintf(numFmt, cfg.Precision, v*100)
	}

	table := tablewriter.NewWriter(file)
	table.Header([]string{"Store", "Up 1h", "Up 1d", "Up 1w", "Down 1h", "Down 1d", "Down 1w", "Avail 1w", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, row := range report.Rows {
		ratio := weekUptimeRatio(row)
		label := contract.GetPlainLabel(ratio)
		if cfg.UseColors {
			label = contract.GetColorLabel(ratio)
		}
		data = append(data, []string{
			truncateStoreID(row.StoreID, maxStoreIDWidth()),
			strconv.FormatInt(row.UptimeLastHour, 10),
			strconv.FormatInt(row.UptimeLastDay, 10),
			strconv.FormatInt(row.UptimeLastWeek, 10),
			strconv.FormatInt(row.DowntimeLastHour, 10),
			strconv.FormatInt(row.DowntimeLastDay, 10),
			strconv.FormatInt(row.DowntimeLastWeek, 10),
			fmtRatio(ratio),
			label,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(file, "Report over %d stores, anchored at %s (%d skipped)\n",
		len(report.Rows), report.GeneratedAt.Format(time.RFC3339), len(report.Skipped)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(file, "Report completed in %v with %d workers. Backend: %s\n", duration, cfg.Workers, cfg.DBBackend)
	return err
}

// weekUptimeRatio gives the labeled availability over the widest window.
func weekUptimeRatio(row schema.ReportRow) float64 {
	total := row.UptimeLastWeek + row.DowntimeLastWeek
	if total == 0 {
		return 1
	}
	return float64(row.UptimeLastWeek) / float64(total)
}

// maxStoreIDWidth bounds the store id column from the terminal width, with a
// conservative default for narrow terminals and CI.
func maxStoreIDWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	// Reserve space for the seven numeric columns, the label, and borders.
	available := width - 72
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateStoreID truncates a store id with an ellipsis prefix.
func truncateStoreID(id string, maxWidth int) string {
	runes := []rune(id)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return id
}
