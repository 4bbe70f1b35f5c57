package collection

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/gravitrone/campus/cli/internal/record"
)

// DefaultPlaceholder stands in for absent or empty values.
const DefaultPlaceholder = "-"

// DefaultDateLayout is the display layout of date fields.
const DefaultDateLayout = "Jan 2, 2006"

var strictPolicy = bluemonday.StrictPolicy()

// CardOptions control how values are displayed.
type CardOptions struct {
	Placeholder string
	DateLayout  string
}

func (o CardOptions) withDefaults() CardOptions {
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	return o
}

// CardRow is one labelled value on a card.
type CardRow struct {
	Label string
	Value string
}

// Card is the display projection of one record.
type Card struct {
	ID     int64
	HasID  bool
	Title  string
	Rows   []CardRow
	Record record.Record
}

// BuildCards projects records into cards in input order. Every record
// yields a card; missing fields become the placeholder.
func BuildCards(records []record.Record, res Resource, opts CardOptions) []Card {
	opts = opts.withDefaults()
	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		id, hasID := rec.ID()
		card := Card{ID: id, HasID: hasID, Record: rec}
		card.Title = opts.Placeholder
		if res.TitleField != "" {
			card.Title = DisplayValue(rec, record.Field{Name: res.TitleField}, opts)
		}
		for _, f := range res.Fields {
			if f.Name == res.TitleField {
				continue
			}
			card.Rows = append(card.Rows, CardRow{
				Label: f.DisplayLabel(),
				Value: DisplayValue(rec, f, opts),
			})
		}
		cards = append(cards, card)
	}
	return cards
}

// DisplayValue renders one field for display: markup stripped, dates in
// the display layout, the placeholder for anything absent.
func DisplayValue(rec record.Record, f record.Field, opts CardOptions) string {
	opts = opts.withDefaults()
	text, ok := rec.Text(f.Name)
	if !ok {
		return opts.Placeholder
	}
	if f.Type == record.Date {
		if d, err := record.ParseDate(text); err == nil {
			return d.Format(opts.DateLayout)
		}
	}
	clean := sanitizeValue(text)
	if strings.TrimSpace(clean) == "" {
		return opts.Placeholder
	}
	return clean
}

func sanitizeValue(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
