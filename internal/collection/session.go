package collection

import (
	"fmt"
	"strings"
)

// EditSession is the form mode: the zero value is Creating, Editing(id)
// targets an existing record.
type EditSession struct {
	editing bool
	target  int64
}

// Creating returns the create-mode session.
func Creating() EditSession {
	return EditSession{}
}

// Editing returns a session targeting record id.
func Editing(id int64) EditSession {
	return EditSession{editing: true, target: id}
}

// IsEditing reports whether the form updates an existing record.
func (s EditSession) IsEditing() bool {
	return s.editing
}

// Target returns the record id being edited.
func (s EditSession) Target() (int64, bool) {
	return s.target, s.editing
}

// Label is the form title for this mode, e.g. "Create event" or
// "Update event #5".
func (s EditSession) Label(singular string) string {
	if s.editing {
		return fmt.Sprintf("Update %s #%d", singular, s.target)
	}
	return "Create " + singular
}

// SubmitLabel is the wording of the submit action.
func (s EditSession) SubmitLabel(singular string) string {
	verb := "Add"
	if s.editing {
		verb = "Update"
	}
	return strings.TrimSpace(verb + " " + singular)
}

func (s EditSession) String() string {
	if s.editing {
		return fmt.Sprintf("Editing(%d)", s.target)
	}
	return "Creating"
}
