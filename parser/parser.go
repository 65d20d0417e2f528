// Package parser turns raw extracted document text into contract field
// mappings. Every supported document type has its own parsing strategy;
// the registry selects one by type tag and scores the result against
// the field catalog. Parsing has no side effects: merging the extracted
// data into a contract is the aggregate's responsibility.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/azertyfreak/makelaar-contract-generator/catalog"
	"github.com/azertyfreak/makelaar-contract-generator/model"
)

// Strategy is a pure parsing function from raw text to a field mapping.
type Strategy interface {
	Parse(text string) map[string]any
}

// Registry maps document-type tags to their parsing strategy.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry returns a registry with one strategy per document type in
// the closed set.
func NewRegistry() *Registry {
	return &Registry{
		strategies: map[string]Strategy{
			"epc":            epcStrategy{},
			"bodemattest":    bodemattestStrategy{},
			"kadaster":       kadasterStrategy{},
			"vip":            vipStrategy{},
			"elektrisch":     elektrischStrategy{},
			"stookolie":      stookolieStrategy{},
			"eigendomstitel": eigendomstitelStrategy{},
			"asbestattest":   asbestattestStrategy{},
		},
	}
}

// Parse selects the strategy for docType, extracts a field mapping from
// the text and scores it against the catalog's required fields for that
// type.
func (r *Registry) Parse(docType, text string) (map[string]any, model.DocumentValidation, error) {
	strategy, ok := r.strategies[docType]
	if !ok {
		return nil, model.DocumentValidation{}, fmt.Errorf("%w: %s", model.ErrUnknownDocumentType, docType)
	}

	data := strategy.Parse(text)
	return data, Validate(docType, data), nil
}

// Validate flags every catalog-required field for the document type
// that is absent or falsy in the extracted mapping. Confidence is the
// fraction of required fields present; a type without requirements
// trivially succeeds with confidence 1.0.
func Validate(docType string, data map[string]any) model.DocumentValidation {
	required := catalog.RequiredDocumentFields(docType)
	if len(required) == 0 {
		return model.DocumentValidation{IsValid: true, Confidence: 1.0}
	}

	var missing []string
	found := 0
	for _, field := range required {
		v, ok := data[field]
		if !ok || model.IsFalsy(v) {
			missing = append(missing, field)
			continue
		}
		found++
	}

	return model.DocumentValidation{
		IsValid:       len(missing) == 0,
		Confidence:    float64(found) / float64(len(required)),
		MissingFields: missing,
	}
}

var datePattern = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)

// dateLayouts are the accepted day/month/year orderings, tried in order.
var dateLayouts = []string{"2/1/2006", "2-1-2006", "2/1/06", "2-1-06"}

// ExtractDate locates the first date-like substring and normalizes it
// to ISO form. When no known layout fits, the raw match is returned
// unchanged so downstream consumers still see the source text.
func ExtractDate(text string) string {
	match := datePattern.FindString(text)
	if match == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, match); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return match
}

// FindField returns the trimmed remainder of the first line containing
// one of the keywords (case-insensitive), with separator colons
// stripped.
func FindField(text string, keywords ...string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range keywords {
			idx := strings.Index(lower, strings.ToLower(keyword))
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(line[idx+len(keyword):])
			rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			rest = strings.TrimSpace(strings.TrimSuffix(rest, ":"))
			if rest != "" {
				return rest
			}
		}
	}
	return ""
}
