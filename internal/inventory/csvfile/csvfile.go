// Package csvfile reads and writes the semicolon separated files used for
// inventory import, bulk stock updates and exports.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
)

const Delimiter = ';'

var (
	ImportHeader = []string{"name", "SKU", "stock", "threshold", "location"}
	StockHeader  = []string{"SKU", "stock"}
)

// table is a header plus the data rows of a parsed file.
type table struct {
	columns map[string]int
	records [][]string
}

func (t *table) get(record []string, column string) string {
	i, ok := t.columns[column]
	if !ok {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (t *table) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// ParseStockRows reads a bulk update file. The header must be SKU and stock,
// optionally followed by threshold.
func ParseStockRows(r io.Reader) ([]dto.StockRow, error) {
	t, err := read(r, StockHeader, "threshold")
	if err != nil {
		return nil, err
	}

	rows := make([]dto.StockRow, 0, len(t.records))
	var fields []apperror.FieldError
	for i, rec := range t.records {
		line := i + 1
		row := dto.StockRow{Row: line, SKU: t.get(rec, "SKU")}
		if row.SKU == "" {
			fields = append(fields, apperror.FieldError{Field: "SKU", Message: "SKU cannot be empty", Row: line})
		}

		var fe *apperror.FieldError
		if row.Stock, fe = parseCount(t.get(rec, "stock"), "stock", line); fe != nil {
			fields = append(fields, *fe)
		}
		if t.has("threshold") {
			threshold, fe := parseCount(t.get(rec, "threshold"), "threshold", line)
			if fe != nil {
				fields = append(fields, *fe)
			}
			row.Threshold = &threshold
		}
		rows = append(rows, row)
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Invalid stock file", fields...)
	}
	return rows, nil
}

// ParseItemRows reads an import file. Only numeric coercion is checked here;
// the remaining field rules belong to the item model.
func ParseItemRows(r io.Reader) ([]dto.ItemRow, error) {
	t, err := read(r, ImportHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ItemRow, 0, len(t.records))
	var fields []apperror.FieldError
	for i, rec := range t.records {
		line := i + 1
		row := dto.ItemRow{
			Row:      line,
			Name:     t.get(rec, "name"),
			SKU:      t.get(rec, "SKU"),
			Location: t.get(rec, "location"),
		}
		var fe *apperror.FieldError
		if row.Stock, fe = parseInt(t.get(rec, "stock"), "stock", line); fe != nil {
			fields = append(fields, *fe)
		}
		if row.Threshold, fe = parseInt(t.get(rec, "threshold"), "threshold", line); fe != nil {
			fields = append(fields, *fe)
		}
		rows = append(rows, row)
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Invalid inventory file", fields...)
	}
	return rows, nil
}

func read(r io.Reader, required []string, optional ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperror.Validation("File is empty")
	}
	if err != nil {
		return nil, malformed(err)
	}

	columns, err := checkHeader(header, required, optional)
	if err != nil {
		return nil, err
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, malformed(err)
	}
	records = dropBlank(records)
	if len(records) == 0 {
		return nil, apperror.Validation("File contains no rows")
	}
	return &table{columns: columns, records: records}, nil
}

func checkHeader(header, required, optional []string) (map[string]int, error) {
	allowed := map[string]bool{}
	for _, c := range required {
		allowed[c] = true
	}
	for _, c := range optional {
		allowed[c] = true
	}

	columns := make(map[string]int, len(header))
	var fields []apperror.FieldError
	for i, raw := range header {
		name := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		switch {
		case !allowed[name]:
			fields = append(fields, apperror.FieldError{Field: "header", Message: "unexpected column " + strconv.Quote(name), Value: name})
		case hasKey(columns, name):
			fields = append(fields, apperror.FieldError{Field: "header", Message: "duplicate column " + strconv.Quote(name), Value: name})
		default:
			columns[name] = i
		}
	}
	for _, c := range required {
		if !hasKey(columns, c) {
			fields = append(fields, apperror.FieldError{Field: "header", Message: "missing column " + strconv.Quote(c), Value: c})
		}
	}
	if len(fields) > 0 {
		expected := strings.Join(required, string(Delimiter))
		if len(optional) > 0 {
			expected += " (optional: " + strings.Join(optional, ", ") + ")"
		}
		return nil, apperror.Validation("Invalid file header, expected "+expected, fields...)
	}
	return columns, nil
}

func parseInt(raw, field string, row int) (int, *apperror.FieldError) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &apperror.FieldError{Field: field, Message: field + " must be a whole number", Value: raw, Row: row}
	}
	return n, nil
}

func parseCount(raw, field string, row int) (int, *apperror.FieldError) {
	n, fe := parseInt(raw, field, row)
	if fe != nil {
		return 0, fe
	}
	if n < 0 {
		return 0, &apperror.FieldError{Field: field, Message: field + " cannot be below 0", Value: n, Row: row}
	}
	return n, nil
}

func malformed(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return apperror.Validation("Malformed file", apperror.FieldError{
			Field:   "file",
			Message: pe.Err.Error(),
			Row:     pe.Line - 1,
		})
	}
	return apperror.Validation("Malformed file: " + err.Error())
}

func dropBlank(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		blank := true
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

func hasKey(m map[string]int, k string) bool {
	_, ok := m[k]
	return ok
}

// Write renders rows under header. Each row is read by header name.
func Write(header []string, rows []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = Delimiter

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = FormatValue(row[col])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Template returns an import file containing only the header.
func Template() []byte {
	b, _ := Write(ImportHeader, nil)
	return b
}

func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
