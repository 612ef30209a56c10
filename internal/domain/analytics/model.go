package analytics

// DateLayout is the calendar date format used in inputs and outputs.
const DateLayout = "2006-01-02"

// Group is one task type's share of a summary range.
type Group struct {
	TaskTypeID           string  `json:"task_type_id"`
	Name                 string  `json:"name"`
	Emoji                string  `json:"emoji"`
	Color                string  `json:"color"`
	TotalDurationSeconds int64   `json:"total_duration_seconds"`
	DurationFormatted    string  `json:"duration_formatted"`
	Percentage           float64 `json:"percentage"`
	TaskCount            int     `json:"task_count"`
	InterruptedCount     int     `json:"interrupted_count"`

	sortOrder int
}

// Summary aggregates tracked time by task type over an inclusive date range.
// Date is set only for single-day summaries.
type Summary struct {
	Date                  string  `json:"date,omitempty"`
	StartDate             string  `json:"start_date"`
	EndDate               string  `json:"end_date"`
	TotalTrackedSeconds   int64   `json:"total_tracked_seconds"`
	TotalTrackedFormatted string  `json:"total_tracked_formatted"`
	Groups                []Group `json:"groups"`
}

// DailyData is one day's total inside a multi-day summary.
type DailyData struct {
	Date                 string `json:"date"`
	TotalDurationSeconds int64  `json:"total_duration_seconds"`
	TotalFormatted       string `json:"total_formatted"`
}

// WeeklySummary is a Summary plus a per-day series.
type WeeklySummary struct {
	Summary
	DailyData []DailyData `json:"daily_data"`
}

// HeatmapDay is one calendar cell.
type HeatmapDay struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Level int     `json:"level"`
}

// Heatmap holds one entry per day in range, oldest first.
type Heatmap struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Days      []HeatmapDay `json:"days"`
}
