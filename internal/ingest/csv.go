package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

type columns struct {
	title, author, price, publishedDate int
}

// ReadRows parses an uploaded CSV. The header row is matched by name,
// case-insensitively; short rows leave the missing cells empty.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrBadHeader
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, Row{
			Line:          line,
			Title:         cell(record, cols.title),
			Author:        cell(record, cols.author),
			Price:         cell(record, cols.price),
			PublishedDate: cell(record, cols.publishedDate),
		})
	}
	return rows, nil
}

func mapHeader(header []string) (columns, error) {
	cols := columns{title: -1, author: -1, price: -1, publishedDate: -1}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		var slot *int
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			slot = &cols.title
		case "author":
			slot = &cols.author
		case "price":
			slot = &cols.price
		case "publisheddate", "published_date":
			slot = &cols.publishedDate
		default:
			continue
		}
		if *slot == -1 {
			*slot = i
		}
	}
	if cols.title < 0 || cols.author < 0 || cols.price < 0 {
		return columns{}, ErrBadHeader
	}
	return cols, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
