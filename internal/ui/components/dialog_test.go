package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmDialogIncludesTitleMessageAndHints(t *testing.T) {
	out := ConfirmDialog("Quit", "Discard the unsaved form?")
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Quit")
	assert.Contains(t, clean, "Discard the unsaved form?")
	assert.Contains(t, clean, "y: confirm | n: cancel")
}

func TestConfirmPreviewDialogShowsPromptAndRecord(t *testing.T) {
	out := ConfirmPreviewDialog("Delete", "Delete event \"Hack Day\"?", []TableRow{
		{Label: "Date", Value: "Jan 1, 2099"},
		{Label: "Location", Value: "Lab1"},
	}, 80)
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Delete event \"Hack Day\"?")
	assert.Contains(t, clean, "Lab1")
	assert.Contains(t, clean, "y: confirm | n: cancel")
}

func TestConfirmPreviewDialogWithoutRows(t *testing.T) {
	out := ConfirmPreviewDialog("Delete", "Delete student \"#4\"?", nil, 80)
	clean := SanitizeText(out)

	assert.Contains(t, clean, "#4")
	assert.NotContains(t, clean, "Record")
}
