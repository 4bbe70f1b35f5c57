package api

import (
	"context"
	"fmt"
	"math"

	"github.com/gravitrone/campus/cli/internal/record"
)

// --- Report Methods ---

func (c *Client) RegistrationReport(ctx context.Context) ([]RegistrationStat, error) {
	data, err := c.get(ctx, "/reports/registrations")
	if err != nil {
		return nil, err
	}
	var items []RegistrationStat
	if len(data) > 0 {
		if err := decodeInto(data, &items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (c *Client) FeedbackReport(ctx context.Context) ([]FeedbackStat, error) {
	data, err := c.get(ctx, "/reports/feedback")
	if err != nil {
		return nil, err
	}
	var items []FeedbackStat
	if len(data) > 0 {
		if err := decodeInto(data, &items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// ListRecords fetches a whole collection.
func (c *Client) ListRecords(ctx context.Context, resource string, params QueryParams) ([]record.Record, error) {
	data, err := c.get(ctx, ResourcePath(resource, nil, params))
	if err != nil {
		return nil, err
	}
	return record.DecodeList(data)
}

// Stats gathers the dashboard numbers: collection sizes, total
// registrations and the mean of the per-event feedback averages rounded to
// one decimal.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	events, err := c.ListRecords(ctx, "events", nil)
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	students, err := c.ListRecords(ctx, "students", nil)
	if err != nil {
		return nil, fmt.Errorf("students: %w", err)
	}
	regs, err := c.RegistrationReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("registrations: %w", err)
	}
	feedback, err := c.FeedbackReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}

	stats := &Stats{Events: len(events), Students: len(students)}
	for _, r := range regs {
		stats.Registrations += r.TotalRegistrations
	}
	if len(feedback) > 0 {
		sum := 0.0
		for _, f := range feedback {
			sum += f.AvgFeedback
		}
		stats.AvgFeedback = math.Round(sum/float64(len(feedback))*10) / 10
	}
	return stats, nil
}
