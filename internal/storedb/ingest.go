package storedb

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/schema"
)

// ingestChunkSize bounds the number of rows per insert transaction.
const ingestChunkSize = 1000

// Flat file names expected under the data directory.
const (
	statusFile   = "store_status.csv"
	hoursFile    = "menu_hours.csv"
	timezoneFile = "timezones.csv"
)

// Timestamp layouts accepted in the status feed.
var statusTimeLayouts = []string{
	"2006-01-02 15:04:05.999999 UTC",
	"2006-01-02 15:04:05 UTC",
	time.RFC3339Nano,
}

// LoadAll ingests the three flat files from dataDir into the store. Tables
// that already contain rows are skipped, so reloading is idempotent.
// Individual malformed rows are warned about and dropped; a missing file is
// an error.
func (s *Store) LoadAll(ctx context.Context, dataDir string) error {
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return fmt.Errorf("data directory not found: %s", dataDir)
	}

	if err := s.loadStatusFile(ctx, filepath.Join(dataDir, statusFile)); err != nil {
		return fmt.Errorf("failed to load %s: %w", statusFile, err)
	}
	if err := s.loadHoursFile(ctx, filepath.Join(dataDir, hoursFile)); err != nil {
		return fmt.Errorf("failed to load %s: %w", hoursFile, err)
	}
	if err := s.loadTimezoneFile(ctx, filepath.Join(dataDir, timezoneFile)); err != nil {
		return fmt.Errorf("failed to load %s: %w", timezoneFile, err)
	}
	return nil
}

// tableEmpty reports whether a table has no rows yet.
func (s *Store) tableEmpty(ctx context.Context, table string) (bool, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count == 0, nil
}

// csvColumns reads a CSV header and maps the requested column names (any of
// the aliases per column) to indexes.
func csvColumns(header []string, aliases [][]string) ([]int, error) {
	indexes := make([]int, len(aliases))
	for i, names := range aliases {
		indexes[i] = -1
		for col, h := range header {
			for _, name := range names {
				if strings.EqualFold(strings.TrimSpace(h), name) {
					indexes[i] = col
				}
			}
		}
		if indexes[i] == -1 {
			return nil, fmt.Errorf("missing column %q (header: %v)", names[0], header)
		}
	}
	return indexes, nil
}

// forEachRecord streams a CSV file, invoking fn per data row.
func forEachRecord(path string, aliases [][]string, fn func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := csvColumns(header, aliases)
	if err != nil {
		return err
	}

	fields := make([]string, len(cols))
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		ok := true
		for i, col := range cols {
			if col >= len(record) {
				ok = false
				break
			}
			fields[i] = strings.TrimSpace(record[col])
		}
		if !ok {
			continue
		}
		if err := fn(fields); err != nil {
			return err
		}
	}
}

// loadStatusFile ingests store_status.csv in chunked transactions.
func (s *Store) loadStatusFile(ctx context.Context, path string) error {
	empty, err := s.tableEmpty(ctx, storeStatusTable)
	if err != nil {
		return err
	}
	if !empty {
		fmt.Printf("Store status data already loaded. Skipping %s\n", path)
		return nil
	}

	insert := s.rebind(fmt.Sprintf(
		"INSERT INTO %s (store_id, timestamp_utc, status) VALUES (?, ?, ?)", storeStatusTable))
	batch := newBatchInserter(ctx, s.db, insert)

	total, bad := 0, 0
	aliases := [][]string{{"store_id"}, {"timestamp_utc"}, {"status"}}
	err = forEachRecord(path, aliases, func(fields []string) error {
		ts, err := parseStatusTime(fields[1])
		if err != nil {
			bad++
			contract.LogWarn("Skipping status row for store "+fields[0], err)
			return nil
		}
		status := schema.Status(strings.ToLower(fields[2]))
		if status != schema.ActiveStatus && status != schema.InactiveStatus {
			bad++
			contract.LogWarn("Skipping status row for store "+fields[0], fmt.Errorf("unknown status %q", fields[2]))
			return nil
		}
		total++
		return batch.add(fields[0], s.formatTime(ts), string(status))
	})
	if err != nil {
		return err
	}
	if err := batch.flush(); err != nil {
		return err
	}

	fmt.Printf("Loaded %d store status records from %s (%d skipped)\n", total, path, bad)
	return nil
}

// loadHoursFile ingests menu_hours.csv.
func (s *Store) loadHoursFile(ctx context.Context, path string) error {
	empty, err := s.tableEmpty(ctx, businessHoursTable)
	if err != nil {
		return err
	}
	if !empty {
		fmt.Printf("Business hours data already loaded. Skipping %s\n", path)
		return nil
	}

	insert := s.rebind(fmt.Sprintf(
		"INSERT INTO %s (store_id, day_of_week, start_sec, end_sec) VALUES (?, ?, ?, ?)", businessHoursTable))
	batch := newBatchInserter(ctx, s.db, insert)

	total, bad := 0, 0
	aliases := [][]string{{"store_id"}, {"day_of_week", "day", "dayOfWeek"}, {"start_time_local"}, {"end_time_local"}}
	err = forEachRecord(path, aliases, func(fields []string) error {
		day, err := strconv.Atoi(fields[1])
		if err != nil || day < 0 || day > 6 {
			bad++
			contract.LogWarn("Skipping hours row for store "+fields[0], fmt.Errorf("invalid day of week %q", fields[1]))
			return nil
		}
		start, err1 := ParseTimeOfDay(fields[2])
		end, err2 := ParseTimeOfDay(fields[3])
		if err1 != nil || err2 != nil {
			bad++
			contract.LogWarn("Skipping hours row for store "+fields[0], fmt.Errorf("invalid time format %q-%q", fields[2], fields[3]))
			return nil
		}
		total++
		return batch.add(fields[0], day, int(start), int(end))
	})
	if err != nil {
		return err
	}
	if err := batch.flush(); err != nil {
		return err
	}

	fmt.Printf("Loaded %d business hours records from %s (%d skipped)\n", total, path, bad)
	return nil
}

// loadTimezoneFile ingests timezones.csv.
func (s *Store) loadTimezoneFile(ctx context.Context, path string) error {
	empty, err := s.tableEmpty(ctx, storeTimezonesTable)
	if err != nil {
		return err
	}
	if !empty {
		fmt.Printf("Timezone data already loaded. Skipping %s\n", path)
		return nil
	}

	insert := s.rebind(fmt.Sprintf(
		"INSERT INTO %s (store_id, timezone) VALUES (?, ?)", storeTimezonesTable))
	batch := newBatchInserter(ctx, s.db, insert)

	total, bad := 0, 0
	aliases := [][]string{{"store_id"}, {"timezone_str", "timezone"}}
	err = forEachRecord(path, aliases, func(fields []string) error {
		if _, err := time.LoadLocation(fields[1]); err != nil {
			bad++
			contract.LogWarn("Skipping timezone row for store "+fields[0], fmt.Errorf("unknown timezone %q", fields[1]))
			return nil
		}
		total++
		return batch.add(fields[0], fields[1])
	})
	if err != nil {
		return err
	}
	if err := batch.flush(); err != nil {
		return err
	}

	fmt.Printf("Loaded %d timezone records from %s (%d skipped)\n", total, path, bad)
	return nil
}

// parseStatusTime parses a status feed timestamp, trying the known layouts.
func parseStatusTime(value string) (time.Time, error) {
	for _, layout := range statusTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", value)
}

// ParseTimeOfDay parses an HH:MM:SS local wall-clock time.
func ParseTimeOfDay(value string) (schema.TimeOfDay, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, got %q", value)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil ||
		h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("expected HH:MM:SS, got %q", value)
	}
	return schema.TimeOfDay(h*3600 + m*60 + sec), nil
}
