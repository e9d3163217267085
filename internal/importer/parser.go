// Package importer turns an untrusted delimited byte stream into persisted
// ledger transactions, reconciling referenced categories along the way.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coinkeep/coinkeep/internal/common"
)

// RawRow is one candidate record from the input stream. All fields are
// uninterpreted strings; coercion and validation happen at the Reconciler
// boundary, not here.
type RawRow struct {
	Title    string
	Type     string
	Value    string
	Category string
}

// Parser lazily yields RawRows from a delimited stream. It is single-pass
// and not restartable; Next returns io.EOF when the stream ends.
type Parser struct {
	br     *bufio.Reader
	reader *csv.Reader
	delim  rune
}

// NewParser creates a parser over r using the default comma delimiter.
func NewParser(r io.Reader) *Parser {
	return NewParserDelim(r, ',')
}

// NewParserDelim creates a parser over r splitting fields on delim.
func NewParserDelim(r io.Reader, delim rune) *Parser {
	return &Parser{
		br:    bufio.NewReader(r),
		delim: delim,
	}
}

// Next returns the next usable row. The first physical line of the stream
// is skipped unconditionally as a header. Rows whose title, type, or value
// is empty after trimming are dropped silently; this tolerates trailing
// blank lines in exported files. Returns io.EOF at end of stream.
func (p *Parser) Next() (RawRow, error) {
	if p.reader == nil {
		// The header must be consumed before csv.Reader sees the stream:
		// csv.Reader silently discards blank lines, so a blank first line
		// would otherwise shift the skip onto the first data row.
		if _, err := p.br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return RawRow{}, io.EOF
			}
			return RawRow{}, fmt.Errorf("%w: %v", common.ErrStreamFailure, err)
		}

		cr := csv.NewReader(p.br)
		cr.Comma = p.delim
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		p.reader = cr
	}

	for {
		record, err := p.reader.Read()
		if errors.Is(err, io.EOF) {
			return RawRow{}, io.EOF
		}
		if err != nil {
			return RawRow{}, fmt.Errorf("%w: %v", common.ErrStreamFailure, err)
		}

		row := RawRow{
			Title:    field(record, 0),
			Type:     field(record, 1),
			Value:    field(record, 2),
			Category: field(record, 3),
		}

		if row.Title == "" || row.Type == "" || row.Value == "" {
			continue
		}

		return row, nil
	}
}

// Drain materializes the remaining rows of the stream. The stream must be
// finite; reconciliation requires the full row set up front.
func (p *Parser) Drain() ([]RawRow, error) {
	var rows []RawRow
	for {
		row, err := p.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
