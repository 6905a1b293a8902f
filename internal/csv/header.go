package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
)

var errMissingColumn = errors.New("missing required column")

// headerReader satisfies gocsv.CSVReader. It cleans the first record and
// rejects it when a required column is absent.
type headerReader struct {
	r        *stdcsv.Reader
	required []string
	started  bool
}

func newHeaderReader(r *stdcsv.Reader, required []string) *headerReader {
	return &headerReader{r: r, required: required}
}

func (h *headerReader) Read() ([]string, error) {
	record, err := h.r.Read()
	if h.started {
		return record, err
	}

	h.started = true
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(record))
	for i, cell := range record {
		record[i] = CleanHeader(cell)
		present[record[i]] = true
	}
	for _, col := range h.required {
		if !present[col] {
			return nil, fmt.Errorf("invalid csv header: %w %q", errMissingColumn, col)
		}
	}
	return record, nil
}

func (h *headerReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := h.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}
