package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"sort"

	"github.com/viant/odoolint/inspector/info"
)

var recordElements = map[string]info.RecordKind{
	"record":     info.KindRecord,
	"template":   info.KindTemplate,
	"menuitem":   info.KindMenuItem,
	"report":     info.KindReport,
	"act_window": info.KindActWindow,
}

var modelAttributes = map[info.RecordKind]string{
	info.KindRecord:    "model",
	info.KindReport:    "model",
	info.KindActWindow: "res_model",
}

var containerElements = map[string]bool{"odoo": true, "openerp": true, "data": true}

// Parser reads markup documents of one module
type Parser struct {
	module string
}

// NewParser creates a parser, module is used to strip module prefixes from referenced paths
func NewParser(module string) *Parser {
	return &Parser{module: module}
}

type element struct {
	name     string
	noUpdate bool
	record   *info.Record
}

// Parse parses document, path is relative to module root
func (p *Parser) Parse(path string, src []byte) (*Document, error) {
	lines := newLineIndex(src)
	decoder := xml.NewDecoder(bytes.NewReader(src))
	decoder.Strict = true
	doc := &Document{Path: path}
	var stack []*element
	for {
		offset := decoder.InputOffset()
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SyntaxError{Path: path, Line: syntaxLine(err, lines, decoder.InputOffset()), Err: err}
		}
		switch actual := token.(type) {
		case xml.StartElement:
			line := lines.line(offset)
			current := &element{name: actual.Name.Local}
			var parent *element
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
				current.noUpdate = parent.noUpdate
			} else {
				doc.Root = actual.Name.Local
			}
			if containerElements[current.name] {
				if value, ok := attr(actual, "noupdate"); ok {
					current.noUpdate = isTrue(value)
				}
			}
			if kind, ok := recordElements[current.name]; ok && (parent == nil || parent.record == nil || (kind == info.KindMenuItem && parent.name == "menuitem")) {
				record := &info.Record{Kind: kind, File: path, Line: line, NoUpdate: current.noUpdate}
				record.ID, _ = attr(actual, "id")
				if name, ok := modelAttributes[kind]; ok {
					record.Model, _ = attr(actual, name)
				}
				current.record = record
				doc.Records = append(doc.Records, record)
			} else if parent != nil && parent.record != nil {
				current.record = parent.record
				if current.name == "field" && parent.name == "record" {
					if name, ok := attr(actual, "name"); ok {
						parent.record.Fields = append(parent.record.Fields, info.Field{Name: name, Line: line})
					}
				}
			}
			if current.name == "report" {
				for _, name := range []string{"xml", "xsl"} {
					if value, ok := attr(actual, name); ok && value != "" {
						doc.References = append(doc.References, Reference{Element: current.name, Attr: name, Path: stripModule(p.module, value), Line: line})
					}
				}
			}
			stack = append(stack, current)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if doc.Root == "" {
		return nil, &SyntaxError{Path: path, Line: 1, Err: errors.New("document has no root element")}
	}
	return doc, nil
}

func attr(element xml.StartElement, name string) (string, bool) {
	for _, candidate := range element.Attr {
		if candidate.Name.Local == name {
			return candidate.Value, true
		}
	}
	return "", false
}

func isTrue(value string) bool {
	switch value {
	case "1", "True", "true":
		return true
	}
	return false
}

func syntaxLine(err error, lines lineIndex, offset int64) int {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Line > 0 {
		return syntaxErr.Line
	}
	return lines.line(offset)
}

// lineIndex holds byte offsets of line starts
type lineIndex []int64

func newLineIndex(src []byte) lineIndex {
	result := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			result = append(result, int64(i+1))
		}
	}
	return result
}

func (l lineIndex) line(offset int64) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > offset })
}
