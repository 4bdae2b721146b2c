package consistency

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
	"github.com/viant/odoolint/inspector/catalog"
	"github.com/viant/odoolint/inspector/info"
)

type messageKey struct {
	message    uint64
	occurrence uint64
}

// DuplicateMessages groups catalog entries by message and occurrence hashes, groups keep catalog order
func DuplicateMessages(document *catalog.Catalog) ([][]*catalog.Entry, error) {
	index := map[messageKey]int{}
	var groups [][]*catalog.Entry
	for _, entry := range document.Messages() {
		message, err := info.Hash(entry.Context, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", document.Path, err)
		}
		occurrence, err := info.Hash(entry.Occurrences...)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", document.Path, err)
		}
		key := messageKey{message: message, occurrence: occurrence}
		position, ok := index[key]
		if !ok {
			position = len(groups)
			index[key] = position
			groups = append(groups, nil)
		}
		groups[position] = append(groups[position], entry)
	}
	var result [][]*catalog.Entry
	for _, group := range groups {
		if len(group) > 1 {
			result = append(result, group)
		}
	}
	return result, nil
}

// MessageCheck reports catalog messages defined twice
type MessageCheck struct{}

func (c *MessageCheck) Name() string    { return "duplicate-messages" }
func (c *MessageCheck) Rules() []string { return []string{diagnostic.PODuplicateMessage} }

// Run checks every parsed catalog
func (c *MessageCheck) Run(ctx context.Context, p *pass.Pass) error {
	for _, document := range p.Unit.Catalogs() {
		groups, err := DuplicateMessages(document)
		if err != nil {
			return err
		}
		for _, group := range groups {
			var lines []string
			for _, entry := range group[1:] {
				lines = append(lines, strconv.Itoa(entry.Line))
			}
			p.ReportAt(diagnostic.PODuplicateMessage, document.Path, group[0].Line, 1, group[0].ID, strings.Join(lines, ", "))
		}
	}
	return ctx.Err()
}
