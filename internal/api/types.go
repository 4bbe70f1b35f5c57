package api

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data *T `json:"data"`
}

// QueryParams are appended to list requests; empty values are skipped.
type QueryParams map[string]string

// --- Reports ---

// RegistrationStat is one row of the registrations report.
type RegistrationStat struct {
	EventID            int64  `json:"event_id"`
	EventName          string `json:"event_name"`
	TotalRegistrations int    `json:"total_registrations"`
}

// FeedbackStat is one row of the feedback report.
type FeedbackStat struct {
	EventID     int64   `json:"event_id"`
	EventName   string  `json:"event_name"`
	AvgFeedback float64 `json:"avg_feedback"`
}

// Stats is the dashboard summary.
type Stats struct {
	Events        int
	Students      int
	Registrations int
	AvgFeedback   float64
}

// HealthInfo is the body of the API root.
type HealthInfo struct {
	Message string `json:"message"`
}
