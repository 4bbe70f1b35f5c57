package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/gravitrone/campus/cli/internal/collection"
	"github.com/gravitrone/campus/cli/internal/record"
)

var errAborted = errors.New("aborted")

// askField and askConfirm are the terminal prompts. Tests replace them.
var (
	askField   = surveyField
	askConfirm = surveyConfirm
)

func surveyField(f record.Field, current string) (string, error) {
	var out string
	var prompt survey.Prompt
	if f.Multiline {
		prompt = &survey.Multiline{Message: fieldMessage(f), Default: current}
	} else {
		prompt = &survey.Input{Message: fieldMessage(f), Default: current, Help: fieldHelp(f)}
	}
	var opts []survey.AskOpt
	if f.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func surveyConfirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}

func fieldMessage(f record.Field) string {
	label := f.DisplayLabel()
	if !f.Required {
		label += " (optional)"
	}
	return label + ":"
}

func fieldHelp(f record.Field) string {
	switch f.Type {
	case record.Date:
		return "YYYY-MM-DD"
	case record.Int:
		return "a whole number"
	}
	return ""
}

// promptForm asks for every field, offering the current input as the
// default so update prompts start from the stored record.
func promptForm(form record.FieldSource, spec record.FieldSpec) error {
	for _, f := range spec {
		value, err := askField(f, form.Value(f.SourceID()))
		if err != nil {
			return err
		}
		form.SetValue(f.SourceID(), value)
	}
	return nil
}

// applyFieldFlags copies name=value pairs onto the form.
func applyFieldFlags(form record.FieldSource, spec record.FieldSpec, pairs []string) error {
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("invalid --field %q, want name=value", pair)
		}
		f, found := spec.Lookup(name)
		if !found {
			return fmt.Errorf("unknown field %q (fields: %s)", name, fieldNames(spec))
		}
		form.SetValue(f.SourceID(), value)
	}
	return nil
}

func fieldNames(spec record.FieldSpec) string {
	names := make([]string, 0, len(spec))
	for _, f := range spec {
		names = append(names, f.Name)
	}
	return strings.Join(names, ", ")
}

// promptConfirmer confirms through askConfirm.
var promptConfirmer = collection.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
	return askConfirm(ctx, prompt)
})
