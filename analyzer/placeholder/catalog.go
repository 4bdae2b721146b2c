package placeholder

import (
	"context"

	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
)

const pythonFormat = "python-format"

// CatalogCheck compares placeholders of translated catalog messages with their source message
type CatalogCheck struct{}

func (c *CatalogCheck) Name() string    { return "catalog-placeholders" }
func (c *CatalogCheck) Rules() []string { return []string{diagnostic.POMsgstrVariables} }

// Run checks python-format entries of every parsed catalog.
// Plural entries are skipped since languages may drop the count from some forms.
func (c *CatalogCheck) Run(ctx context.Context, p *pass.Pass) error {
	for _, document := range p.Unit.Catalogs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, entry := range document.Messages() {
			if !entry.HasFlag(pythonFormat) || entry.Plural != "" {
				continue
			}
			source, err := Derive(entry.ID, Printf)
			if err != nil {
				continue
			}
			for _, translation := range entry.Translations() {
				translated, err := Derive(translation, Printf)
				if err == nil && source.Equal(translated) {
					continue
				}
				found := "an invalid format"
				if err == nil {
					found = translated.Describe()
				}
				p.ReportAt(diagnostic.POMsgstrVariables, document.Path, entry.Line, 1, entry.ID, source.Describe(), found)
				break
			}
		}
	}
	return nil
}
