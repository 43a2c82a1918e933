// Package dataset loads and cleans the GSS extract once at startup and
// exposes it read-only.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"gss-dashboard/internal/model"
	"gss-dashboard/pkg/utils"
)

// ErrDataUnavailable is returned when the source cannot be fetched or parsed.
var ErrDataUnavailable = errors.New("data unavailable")

// Source describes where the dataset comes from.
type Source struct {
	Location string        // http(s) URL or local path
	Encoding string        // "cp1252" or "" for UTF-8
	Seed     uint64        // state assignment seed
	Required []string      // raw columns that must be present
	Timeout  time.Duration // fetch timeout for URLs, per attempt
	Retry    RetryConfig   // zero value fetches once
}

// Dataset is the cleaned record collection. It is never mutated after load.
type Dataset struct {
	records []model.Record
	stats   model.LoadStats
}

// New wraps already-cleaned records.
func New(records []model.Record) *Dataset {
	return &Dataset{
		records: records,
		stats:   model.LoadStats{Source: "memory", RowsRead: len(records), LoadedAt: time.Now().UTC()},
	}
}

// Records returns the loaded records. Callers must not modify them.
func (d *Dataset) Records() []model.Record { return d.records }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Stats returns load statistics.
func (d *Dataset) Stats() model.LoadStats { return d.stats }

// Load fetches and parses src. Any failure wraps ErrDataUnavailable.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	logger.Info("loading dataset", zap.String("source", src.Location), zap.String("encoding", src.Encoding))

	rc, err := withRetry(ctx, src.Retry, logger, func() (io.ReadCloser, error) {
		return open(ctx, src)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer rc.Close()

	var reader io.Reader = rc
	switch strings.ToLower(src.Encoding) {
	case "", "utf-8", "utf8":
	case "cp1252", "windows-1252":
		reader = charmap.Windows1252.NewDecoder().Reader(rc)
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrDataUnavailable, src.Encoding)
	}

	ds, err := Parse(reader, src)
	if err != nil {
		return nil, err
	}
	ds.stats.Duration = time.Since(start)
	logger.Info("dataset loaded",
		zap.Int("rows", ds.stats.RowsRead),
		zap.Int("skipped", ds.stats.RowsSkipped),
		zap.Duration("duration", ds.stats.Duration))
	return ds, nil
}

func open(ctx context.Context, src Source) (io.ReadCloser, error) {
	if strings.HasPrefix(src.Location, "http://") || strings.HasPrefix(src.Location, "https://") {
		timeout := src.Timeout
		if timeout <= 0 {
			timeout = time.Minute
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, nil)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("building request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			cancel()
			return nil, transient(fmt.Errorf("failed to GET CSV: %w", err))
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			cancel()
			err := fmt.Errorf("failed to GET CSV: status %s", resp.Status)
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return nil, transient(err)
			}
			return nil, err
		}
		return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, nil
	}
	file, err := os.Open(src.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	return file, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}

// Parse reads CSV from r, keeps and renames the dashboard columns, maps NA
// codes to missing and derives the state column.
func Parse(r io.Reader, src Source) (*Dataset, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", ErrDataUnavailable, err)
	}

	index := make(map[int]string)
	seen := make(map[string]bool)
	var kept []string
	for i, h := range headers {
		raw := utils.CleanHeader(h)
		if to, ok := renames[raw]; ok {
			index[i] = to
			seen[raw] = true
			kept = append(kept, to)
		}
	}
	for _, col := range src.Required {
		if !seen[col] {
			return nil, fmt.Errorf("%w: missing required column %q", ErrDataUnavailable, col)
		}
	}

	states := newStateAssigner(src.Seed)
	ds := &Dataset{stats: model.LoadStats{Source: src.Location, Columns: kept, LoadedAt: time.Now().UTC()}}
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				ds.stats.RowsSkipped++
				continue
			}
			return nil, fmt.Errorf("%w: CSV read error: %v", ErrDataUnavailable, err)
		}
		if len(row) != len(headers) {
			ds.stats.RowsSkipped++
			continue
		}

		rec := model.NewRecord()
		for i, col := range index {
			val := cleanValue(col, row[i])
			if val == "" {
				continue
			}
			rec.Values[col] = val
			if numericColumns[col] {
				if f, ok := utils.ParseNumber(val); ok {
					rec.Numbers[col] = f
				}
			}
		}
		if st := states.assign(rec.Values["region"]); st != "" {
			rec.Values["state"] = st
		}
		ds.records = append(ds.records, rec)
	}
	ds.stats.RowsRead = len(ds.records)
	return ds, nil
}

func cleanValue(col, raw string) string {
	v := strings.TrimSpace(raw)
	if naValues[v] {
		return ""
	}
	if col == "age" && v == "89 or older" {
		return "89"
	}
	return v
}
