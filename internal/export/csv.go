package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/romangod6/sitemap-explorer/internal/models"
)

// MIMEType is the content type of exported CSV files.
const MIMEType = "text/csv"

// ErrMissingHeader is returned by ReadCSV when the first record is not the
// URL header.
var ErrMissingHeader = errors.New(`csv export must start with a "URL" header`)

// NewTable projects urls onto a single "URL" column, keeping order.
func NewTable(urls models.URLList) models.ResultTable {
	rows := make([]string, len(urls))
	copy(rows, urls)
	return models.ResultTable{
		Columns: []string{models.URLColumn},
		Rows:    rows,
	}
}

// WriteCSV writes the header row followed by one row per URL. There is no
// index column.
func WriteCSV(w io.Writer, table models.ResultTable) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table.Records()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ToCSV renders urls as CSV bytes, ready to be offered as a download.
func ToCSV(urls models.URLList) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, NewTable(urls)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV reads back a file written by WriteCSV.
func ReadCSV(r io.Reader) (models.URLList, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if header[0] != models.URLColumn && header[0] != "\ufeff"+models.URLColumn {
		return nil, ErrMissingHeader
	}

	urls := models.URLList{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		urls = append(urls, record[0])
	}
	return urls, nil
}
