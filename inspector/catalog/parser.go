package catalog

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

type field int

const (
	fieldNone field = iota
	fieldContext
	fieldID
	fieldPlural
	fieldStr
)

type parser struct {
	path    string
	catalog *Catalog
	entry   *Entry
	field   field
	index   int // msgstr[n] index
	started bool
}

// Parse parses gettext catalog
func Parse(path string, src []byte) (*Catalog, error) {
	p := &parser{path: path, catalog: &Catalog{Path: path}}
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := p.line(lineNumber, strings.TrimSpace(scanner.Text())); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &SyntaxError{Path: path, Line: lineNumber, Reason: err.Error()}
	}
	if err := p.flush(lineNumber); err != nil {
		return nil, err
	}
	return p.catalog, nil
}

func (p *parser) current() *Entry {
	if p.entry == nil {
		p.entry = &Entry{}
	}
	return p.entry
}

func (p *parser) flush(lineNumber int) error {
	if p.entry == nil {
		return nil
	}
	if !p.started {
		if p.entry.Line == 0 && len(p.entry.Occurrences) == 0 && len(p.entry.Flags) == 0 {
			p.entry = nil
			return nil
		}
		return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "comment without msgid"}
	}
	if len(p.entry.Str) == 0 {
		return &SyntaxError{Path: p.path, Line: p.entry.Line, Reason: "missing msgstr"}
	}
	p.catalog.Entries = append(p.catalog.Entries, p.entry)
	p.entry = nil
	p.started = false
	p.field = fieldNone
	return nil
}

func (p *parser) line(lineNumber int, text string) error {
	if text == "" {
		return nil
	}
	obsolete := false
	if strings.HasPrefix(text, "#~") {
		obsolete = true
		text = strings.TrimSpace(text[2:])
		if text == "" || strings.HasPrefix(text, "|") {
			return nil
		}
	}
	if strings.HasPrefix(text, "#") {
		if p.started && p.field == fieldStr {
			if err := p.flush(lineNumber); err != nil {
				return err
			}
		}
		p.comment(text)
		return nil
	}
	keyword, rest := splitKeyword(text)
	switch {
	case keyword == "":
		if p.field == fieldNone {
			return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "unexpected continuation line"}
		}
		value, err := p.unquote(lineNumber, text)
		if err != nil {
			return err
		}
		p.append(value)
		return nil
	case keyword == "msgctxt" || (keyword == "msgid" && !(p.started && p.field == fieldContext)):
		if p.started && p.field == fieldStr {
			if err := p.flush(lineNumber); err != nil {
				return err
			}
		} else if p.started && keyword == "msgctxt" {
			return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "unexpected msgctxt"}
		} else if p.started {
			return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "msgid without msgstr"}
		}
	}
	entry := p.current()
	entry.Obsolete = entry.Obsolete || obsolete
	value, err := p.unquote(lineNumber, rest)
	if err != nil {
		return err
	}
	p.started = true
	switch {
	case keyword == "msgctxt":
		p.field = fieldContext
		entry.Context = value
	case keyword == "msgid":
		p.field = fieldID
		entry.ID = value
		entry.Line = lineNumber
	case keyword == "msgid_plural":
		if p.field != fieldID {
			return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "msgid_plural without msgid"}
		}
		p.field = fieldPlural
		entry.Plural = value
	case keyword == "msgstr":
		if p.field != fieldID && p.field != fieldPlural {
			return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "msgstr without msgid"}
		}
		p.field = fieldStr
		p.index = len(entry.Str)
		entry.Str = append(entry.Str, value)
	case strings.HasPrefix(keyword, "msgstr["):
		if p.field != fieldPlural && p.field != fieldStr {
			return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "msgstr[n] without msgid_plural"}
		}
		index, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(keyword, "msgstr["), "]"))
		if err != nil || index != len(entry.Str) {
			return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "invalid plural index " + keyword}
		}
		p.field = fieldStr
		p.index = index
		entry.Str = append(entry.Str, value)
	default:
		return &SyntaxError{Path: p.path, Line: lineNumber, Reason: "unknown keyword " + keyword}
	}
	return nil
}

func (p *parser) comment(text string) {
	entry := p.current()
	switch {
	case strings.HasPrefix(text, "#:"):
		entry.Occurrences = append(entry.Occurrences, strings.Fields(text[2:])...)
	case strings.HasPrefix(text, "#,"):
		for _, flag := range strings.Split(text[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				entry.Flags = append(entry.Flags, flag)
			}
		}
	}
}

func (p *parser) append(value string) {
	entry := p.current()
	switch p.field {
	case fieldContext:
		entry.Context += value
	case fieldID:
		entry.ID += value
	case fieldPlural:
		entry.Plural += value
	case fieldStr:
		entry.Str[p.index] += value
	}
}

func (p *parser) unquote(lineNumber int, text string) (string, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", &SyntaxError{Path: p.path, Line: lineNumber, Reason: "expected quoted string"}
	}
	value, err := strconv.Unquote(text)
	if err != nil {
		return "", &SyntaxError{Path: p.path, Line: lineNumber, Reason: "invalid string " + text}
	}
	return value, nil
}

func splitKeyword(text string) (string, string) {
	if strings.HasPrefix(text, `"`) {
		return "", text
	}
	index := strings.IndexAny(text, " \t")
	if index == -1 {
		return text, ""
	}
	return text[:index], text[index+1:]
}
