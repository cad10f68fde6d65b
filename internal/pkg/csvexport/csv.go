// Package csvexport renders admin exports.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Quoting selects how values are escaped.
type Quoting string

const (
	// QuotingNaive wraps each value in double quotes without escaping
	// embedded quotes. Existing spreadsheets depend on this layout.
	QuotingNaive Quoting = "naive"
	// QuotingRFC4180 escapes values as encoding/csv does.
	QuotingRFC4180 Quoting = "rfc4180"
)

// ParseQuoting maps a query parameter onto a Quoting, defaulting to naive.
func ParseQuoting(s string) Quoting {
	if strings.EqualFold(strings.TrimSpace(s), string(QuotingRFC4180)) {
		return QuotingRFC4180
	}
	return QuotingNaive
}

// Table is a header row plus data rows of the same width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Encode renders t. An empty table yields no bytes at all.
func Encode(t Table, q Quoting) ([]byte, error) {
	if len(t.Rows) == 0 {
		return nil, nil
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("row %d has %d values, header has %d", i, len(row), len(t.Header))
		}
	}

	if q == QuotingRFC4180 {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(t.Header); err != nil {
			return nil, err
		}
		if err := w.WriteAll(t.Rows); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Header, ","))
	for _, row := range t.Rows {
		quoted := make([]string, len(row))
		for i, v := range row {
			quoted[i] = `"` + v + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	return []byte(strings.Join(lines, "\n")), nil
}
