package record

import (
	"fmt"
	"net/mail"
	"time"
)

// ValidationError reports a candidate record that breaks a local rule.
// Submission stops before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator checks a candidate record before it is submitted.
type Validator func(Record) error

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// Validate runs validators in order and returns the first failure.
func Validate(rec Record, validators ...Validator) error {
	for _, v := range validators {
		if v == nil {
			continue
		}
		if err := v(rec); err != nil {
			return err
		}
	}
	return nil
}

// NotInPast rejects a date field earlier than today. Today is the calendar
// day of clock in its own location, so time.Now gives the local day. Today
// itself passes.
// An absent field passes; use Field.Required to demand it.
func NotInPast(field string, clock Clock) Validator {
	if clock == nil {
		clock = time.Now
	}
	return func(rec Record) error {
		text, ok := rec.Text(field)
		if !ok {
			return nil
		}
		d, err := ParseDate(text)
		if err != nil {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field)}
		}
		now := clock()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(today) {
			return &ValidationError{Field: field, Message: "Date cannot be in the past"}
		}
		return nil
	}
}

// IntRange rejects an integer field outside [min, max].
func IntRange(field string, min, max int64) Validator {
	return func(rec Record) error {
		if _, present := rec[field]; !present {
			return nil
		}
		n, ok := rec.Int(field)
		if !ok || n < min || n > max {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s must be between %d and %d", field, min, max),
			}
		}
		return nil
	}
}

// Email rejects a field that is not a single bare address.
func Email(field string) Validator {
	return func(rec Record) error {
		text, ok := rec.Text(field)
		if !ok {
			return nil
		}
		addr, err := mail.ParseAddress(text)
		if err != nil || addr.Address != text {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%s is not a valid email address", field)}
		}
		return nil
	}
}
