// journal/csv.go
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVHeader is the column order written by ExportCSV. ImportCSV matches
// columns by name, so extra or reordered columns are fine.
var CSVHeader = []string{
	"id", "symbol", "market", "side", "executed_at", "created_at", "date", "timestamp",
	"entry_price", "exit_price", "size", "pnl", "notes",
}

// ExportCSV writes trades with a header row.
func ExportCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.ID,
			t.Symbol,
			t.Market,
			string(t.Side),
			ts(t.ExecutedAt),
			ts(t.CreatedAt),
			ts(t.Date),
			ts(t.Timestamp),
			optional(t.EntryPrice),
			optional(t.ExitPrice),
			optional(t.Size),
			f(t.PnL),
			t.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSVFile writes trades to path, replacing any existing file.
func ExportCSVFile(path string, trades []Trade) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportCSV(fh, trades); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// ImportCSV reads trades for ownerID. Symbol and side are required per row;
// an unparseable time is left zero and a non-numeric pnl becomes 0 so legacy
// exports still load. The returned trades are normalized but not stored.
func ImportCSV(r io.Reader, ownerID string) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"symbol", "side"} {
		if _, ok := cols[required]; !ok {
			return nil, &ValidationError{Field: required, Reason: "column missing from header"}
		}
	}

	var out []Trade
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		side, err := ParseSide(get("side"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t := Trade{
			ID:         get("id"),
			OwnerID:    ownerID,
			Symbol:     get("symbol"),
			Market:     get("market"),
			Side:       side,
			EntryPrice: ParseOptionalAmount(get("entry_price")),
			ExitPrice:  ParseOptionalAmount(get("exit_price")),
			Size:       ParseOptionalAmount(get("size")),
			Notes:      get("notes"),
		}
		t.ExecutedAt, _ = ParseTime(get("executed_at"))
		t.CreatedAt, _ = ParseTime(get("created_at"))
		t.Date, _ = ParseTime(get("date"))
		t.Timestamp, _ = ParseTime(get("timestamp"))
		t.PnL, _ = ParseAmount(get("pnl"))

		t = NormalizeTrade(t)
		if t.Symbol == "" {
			return nil, fmt.Errorf("line %d: %w", line, &ValidationError{Field: "symbol", Reason: "is required"})
		}
		out = append(out, t)
	}
	return out, nil
}

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func optional(p *float64) string {
	if p == nil {
		return ""
	}
	return f(*p)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
