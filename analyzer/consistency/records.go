package consistency

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/inspector/info"
)

// Group represents records sharing a key, Records are ordered by location
type Group struct {
	Key     info.RecordKey
	Records []*info.Record
}

// First returns the first occurrence
func (g *Group) First() *info.Record {
	return g.Records[0]
}

// Duplicates groups records declared by a manifest section by their key.
// Records of unreferenced documents carry no section and are ignored.
// Groups are returned sorted by first occurrence.
func Duplicates(records []*info.Record, module string) []*Group {
	index := map[info.RecordKey]*Group{}
	var groups []*Group
	for _, record := range records {
		if record.Section == "" || record.ID == "" {
			continue
		}
		key := record.Key()
		key.ID = strings.TrimPrefix(key.ID, module+".")
		group, ok := index[key]
		if !ok {
			group = &Group{Key: key}
			index[key] = group
			groups = append(groups, group)
		}
		group.Records = append(group.Records, record)
	}
	var result []*Group
	for _, group := range groups {
		if len(group.Records) < 2 {
			continue
		}
		sort.SliceStable(group.Records, func(i, j int) bool {
			return group.Records[i].Location().Before(group.Records[j].Location())
		})
		result = append(result, group)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].First().Location().Before(result[j].First().Location())
	})
	return result
}

// RecordCheck reports records declared twice within one section
type RecordCheck struct{}

func (c *RecordCheck) Name() string { return "duplicate-records" }

func (c *RecordCheck) Rules() []string {
	return []string{diagnostic.XMLDuplicateRecordID, diagnostic.CSVDuplicateRecordID, diagnostic.XMLDuplicateFields}
}

// Run checks markup and tabular records
func (c *RecordCheck) Run(ctx context.Context, p *pass.Pass) error {
	var markup, rows []*info.Record
	for _, document := range p.Unit.MarkupDocuments() {
		markup = append(markup, document.Records...)
	}
	for _, table := range p.Unit.Tables() {
		rows = append(rows, table.Records...)
	}
	if p.Enabled(diagnostic.XMLDuplicateRecordID) {
		report(p, diagnostic.XMLDuplicateRecordID, Duplicates(markup, p.Unit.Name))
	}
	if p.Enabled(diagnostic.CSVDuplicateRecordID) {
		report(p, diagnostic.CSVDuplicateRecordID, Duplicates(rows, p.Unit.Name))
	}
	if p.Enabled(diagnostic.XMLDuplicateFields) {
		for _, record := range markup {
			duplicateFields(p, record)
		}
	}
	return ctx.Err()
}

func report(p *pass.Pass, rule string, groups []*Group) {
	for _, group := range groups {
		first := group.First()
		var others []string
		for _, record := range group.Records[1:] {
			others = append(others, record.Location().String())
		}
		p.ReportAt(rule, first.File, first.Line, 1, group.Key.ID, strings.Join(others, ", "))
	}
}

func duplicateFields(p *pass.Pass, record *info.Record) {
	lines := map[string][]int{}
	var names []string
	for _, field := range record.Fields {
		if _, ok := lines[field.Name]; !ok {
			names = append(names, field.Name)
		}
		lines[field.Name] = append(lines[field.Name], field.Line)
	}
	for _, name := range names {
		if len(lines[name]) < 2 {
			continue
		}
		var text []string
		for _, line := range lines[name] {
			text = append(text, strconv.Itoa(line))
		}
		p.ReportAt(diagnostic.XMLDuplicateFields, record.File, lines[name][1], 1, name, strings.Join(text, ", "))
	}
}
