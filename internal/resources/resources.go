// Package resources defines the campus collections the client manages.
package resources

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gravitrone/campus/cli/internal/collection"
	"github.com/gravitrone/campus/cli/internal/record"
)

// Resource names, also the API path segments.
const (
	Events   = "events"
	Students = "students"
	Feedback = "feedback"
)

// Options tune the resource definitions at startup.
type Options struct {
	// Defaults per resource name, merged into submitted records.
	Defaults map[string]record.Record
	// CollegeID filters the events list when non-zero.
	CollegeID int64
	// Clock drives the event date check. Nil means time.Now.
	Clock record.Clock
}

// All returns every resource in tab order.
func All(opts Options) []collection.Resource {
	return []collection.Resource{
		EventResource(opts),
		StudentResource(opts),
		FeedbackResource(opts),
	}
}

// Names lists the known resource names in tab order.
func Names() []string {
	return []string{Events, Students, Feedback}
}

// Lookup returns the resource named name.
func Lookup(name string, opts Options) (collection.Resource, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, res := range All(opts) {
		if res.Name == name {
			return res, nil
		}
	}
	known := Names()
	sort.Strings(known)
	return collection.Resource{}, fmt.Errorf("unknown resource %q (known: %s)", name, strings.Join(known, ", "))
}

// EventResource describes /events.
func EventResource(opts Options) collection.Resource {
	res := collection.Resource{
		Name:       Events,
		Singular:   "event",
		Title:      "Events",
		TitleField: "name",
		Fields: record.FieldSpec{
			{Name: "name", Label: "Name", Required: true},
			{Name: "date", Label: "Date", Type: record.Date, Required: true},
			{Name: "location", Label: "Location"},
			{Name: "type", Label: "Type"},
			{Name: "description", Label: "Description", Multiline: true},
			{Name: "college_id", Label: "College ID", Type: record.Int},
		},
		Validators: []record.Validator{record.NotInPast("date", opts.Clock)},
		Defaults:   opts.Defaults[Events],
	}
	if opts.CollegeID != 0 {
		res.Query = map[string]string{"college_id": fmt.Sprintf("%d", opts.CollegeID)}
	}
	return res
}

// StudentResource describes /students.
func StudentResource(opts Options) collection.Resource {
	return collection.Resource{
		Name:       Students,
		Singular:   "student",
		Title:      "Students",
		TitleField: "name",
		Fields: record.FieldSpec{
			{Name: "name", Label: "Name", Required: true},
			{Name: "email", Label: "Email", Required: true},
			{Name: "college_id", Label: "College ID", Type: record.Int},
		},
		Validators: []record.Validator{record.Email("email")},
		Defaults:   opts.Defaults[Students],
	}
}

// FeedbackResource describes /feedback.
func FeedbackResource(opts Options) collection.Resource {
	return collection.Resource{
		Name:       Feedback,
		Singular:   "feedback",
		Title:      "Feedback",
		TitleField: "comments",
		Fields: record.FieldSpec{
			{Name: "student_id", Label: "Student ID", Type: record.Int, Required: true},
			{Name: "event_id", Label: "Event ID", Type: record.Int, Required: true},
			{Name: "rating", Label: "Rating (1-5)", Type: record.Int, Required: true},
			{Name: "comments", Label: "Comments", Multiline: true},
		},
		Validators: []record.Validator{record.IntRange("rating", 1, 5)},
		Defaults:   opts.Defaults[Feedback],
	}
}
