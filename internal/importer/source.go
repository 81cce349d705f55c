package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// csvSource streams CSV records into pgx.CopyFrom. Rows are padded with
// empty strings or truncated to the header width.
type csvSource struct {
	reader *csv.Reader
	width  int
	values []any
	err    error
}

func newCSVSource(reader *csv.Reader, width int) *csvSource {
	return &csvSource{
		reader: reader,
		width:  width,
		values: make([]any, width),
	}
}

// Next implements pgx.CopyFromSource. encoding/csv already skips blank lines.
func (s *csvSource) Next() bool {
	if s.err != nil {
		return false
	}

	record, err := s.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		s.err = invalidInput("reading CSV: %v", err)
		return false
	}

	for i := 0; i < s.width; i++ {
		if i < len(record) {
			s.values[i] = record[i]
		} else {
			s.values[i] = ""
		}
	}
	return true
}

// Values implements pgx.CopyFromSource.
func (s *csvSource) Values() ([]any, error) {
	return s.values, nil
}

// Err implements pgx.CopyFromSource.
func (s *csvSource) Err() error {
	return s.err
}

// newCSVReader configures a reader that tolerates ragged rows and stray
// quotes inside unquoted cells, and skips a UTF-8 byte order mark at the
// start of the stream. A cell like 5" stays 5".
func newCSVReader(r io.Reader) *csv.Reader {
	buffered := bufio.NewReader(r)
	if prefix, err := buffered.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, []byte(byteOrderMark)) {
		_, _ = buffered.Discard(len(byteOrderMark))
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// readHeader reads and normalizes the first record.
func readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if err == io.EOF {
		return nil, invalidInput("CSV file is empty")
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "reading header: %v", err)
	}
	return NormalizeHeader(header)
}
