package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/gravitrone/campus/cli/internal/collection"
	"github.com/gravitrone/campus/cli/internal/record"
)

// textRenderer prints the whole collection as plain-text cards. Each call
// reprints everything it is given.
type textRenderer struct {
	out  io.Writer
	res  collection.Resource
	opts collection.CardOptions
}

func (r textRenderer) Render(records []record.Record, _ collection.Handlers) {
	if len(records) == 0 {
		fmt.Fprintf(r.out, "no %s found\n", r.res.Name)
		return
	}
	for i, card := range collection.BuildCards(records, r.res, r.opts) {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, cardHeading(card))
		width := 0
		for _, row := range card.Rows {
			if n := len(row.Label) + 1; n > width {
				width = n
			}
		}
		for _, row := range card.Rows {
			fmt.Fprintf(r.out, "    %-*s  %s\n", width, row.Label+":", indentContinuation(row.Value, width+6))
		}
	}
}

func cardHeading(card collection.Card) string {
	if !card.HasID {
		return "  " + card.Title
	}
	return fmt.Sprintf("  #%d  %s", card.ID, card.Title)
}

func indentContinuation(s string, pad int) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", pad))
}

// lineNotifier prints success and info messages. Errors come back as
// command errors and are printed once by main.
type lineNotifier struct {
	out io.Writer
}

func (n lineNotifier) Notify(level collection.Level, message string) {
	if level == collection.LevelError {
		return
	}
	fmt.Fprintln(n.out, message)
}
