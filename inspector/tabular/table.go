package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/viant/odoolint/inspector/info"
)

// SyntaxError reports a malformed tabular file
type SyntaxError struct {
	Path string
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Table represents a parsed data file, the model is derived from the file name
type Table struct {
	Path    string
	Model   string
	Header  []string
	Records []*info.Record
}

// Parse reads csv with a header row, rows without id column yield no records
func Parse(location string, src []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(src))
	reader.FieldsPerRecord = -1
	table := &Table{Path: location, Model: strings.TrimSuffix(path.Base(location), path.Ext(location))}
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		return nil, newSyntaxError(location, err)
	}
	table.Header = header
	idIndex := -1
	for i, name := range header {
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		if name == "id" {
			idIndex = i
		}
	}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newSyntaxError(location, err)
		}
		if idIndex == -1 || idIndex >= len(row) {
			continue
		}
		line, _ := reader.FieldPos(idIndex)
		id := strings.TrimSpace(row[idIndex])
		if id == "" {
			continue
		}
		table.Records = append(table.Records, &info.Record{Kind: info.KindTabularRow, ID: id, Model: table.Model, File: location, Line: line})
	}
	return table, nil
}

func newSyntaxError(location string, err error) error {
	line := 1
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		line = parseErr.Line
	}
	return &SyntaxError{Path: location, Line: line, Err: err}
}
