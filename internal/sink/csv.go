package sink

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/finscope/newscrawl/internal/domain"
)

// Header is the fixed sink column order, set at file creation.
var Header = []string{"NDATE", "TITLE", "CONTENT", "LINK", "OID", "INDUSTRY", "SENT_SCORE"}

// utf8BOM prefixes new sink files so spreadsheet tools detect the
// encoding of Korean text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// linkColumn is Header's position of the article URL.
const linkColumn = 3

// CSVSink appends article rows to a headered CSV file.
type CSVSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	path   string
}

// NewCSVSink opens the sink file in append mode, creating it with the
// fixed header when missing.
func NewCSVSink(path string) (*CSVSink, error) {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, fs.ErrNotExist)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open sink file: %w", err)
	}

	s := &CSVSink{
		file:   file,
		writer: csv.NewWriter(file),
		path:   path,
	}

	if created {
		if _, writeErr := file.Write(utf8BOM); writeErr != nil {
			file.Close()
			return nil, fmt.Errorf("write sink BOM: %w", writeErr)
		}
		if headerErr := s.writeRow(Header); headerErr != nil {
			file.Close()
			return nil, headerErr
		}
	}

	return s, nil
}

// Save appends one article row.
func (s *CSVSink) Save(_ context.Context, article *domain.Article) error {
	return s.writeRow([]string{
		article.PublishedAt,
		article.Title,
		article.Content,
		article.Link,
		article.OID,
		article.Industry,
		article.SentScore,
	})
}

// Close flushes and closes the sink file.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush sink: %w", err)
	}
	return s.file.Close()
}

// writeRow writes and flushes a single record.
func (s *CSVSink) writeRow(row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("write sink row: %w", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("flush sink row: %w", err)
	}
	return nil
}

// LoadLinks reads the LINK column from an existing sink file so the
// dedup index can be seeded at startup. A missing file yields no links.
func LoadLinks(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open sink file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read sink file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	links := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) > linkColumn && record[linkColumn] != "" {
			links = append(links, record[linkColumn])
		}
	}
	return links, nil
}
