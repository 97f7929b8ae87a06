package codefile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"codedrop/internal/domain"
	"codedrop/internal/ports/output"
)

const (
	maxFileSize    = 8 << 20
	requestTimeout = 30 * time.Second
)

var _ output.CodeSource = (*Source)(nil)

// Source downloads an uploaded code file and returns the first cell of every
// row. XLSX workbooks are read from their first sheet; anything else is read
// as CSV.
type Source struct {
	client *http.Client
}

func NewSource(client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Source{client: client}
}

func (s *Source) Fetch(ctx context.Context, filename, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCodeFileUnreadable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %w", domain.ErrCodeFileUnreadable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download: status %d", domain.ErrCodeFileUnreadable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", domain.ErrCodeFileUnreadable, err)
	}
	if len(body) > maxFileSize {
		return nil, fmt.Errorf("%w: file larger than %d bytes", domain.ErrCodeFileUnreadable, maxFileSize)
	}

	var rows []string
	if strings.EqualFold(path.Ext(filename), ".xlsx") {
		rows, err = ParseXLSX(bytes.NewReader(body))
	} else {
		rows, err = ParseCSV(bytes.NewReader(body))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCodeFileUnreadable, err)
	}
	return rows, nil
}

// ParseCSV returns the first field of every record. Ragged rows are accepted.
func ParseCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var rows []string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, firstCell(record))
	}
}

// ParseXLSX returns the first cell of every row of the workbook's first sheet.
func ParseXLSX(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	rows := make([]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, firstCell(record))
	}
	return rows, nil
}

func firstCell(record []string) string {
	if len(record) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(record[0], "\ufeff"))
}
