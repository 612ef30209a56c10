package analytics

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/rpggio/worklog/internal/clock"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/duration"
	"github.com/rpggio/worklog/internal/repository"
)

const (
	// DefaultMaxRangeDays caps a single request at roughly ten years.
	DefaultMaxRangeDays = 3660
	// DefaultTimeout bounds the store reads behind one summary.
	DefaultTimeout = 5 * time.Second

	weeklyDays  = 7
	heatmapDays = 90

	unknownTaskTypeName = "Unknown"
)

// Options tunes a Service. Zero values pick defaults.
type Options struct {
	Location     *time.Location
	Thresholds   duration.Thresholds
	Clock        clock.Clock
	MaxRangeDays int
	Timeout      time.Duration
}

// Service computes read-only summaries of tracked time. Day boundaries are
// local midnights in the configured location.
type Service struct {
	sessions   SessionSource
	taskTypes  TaskTypeSource
	loc        *time.Location
	thresholds duration.Thresholds
	clock      clock.Clock
	maxDays    int
	timeout    time.Duration
	logger     *slog.Logger
}

// NewService creates a new analytics service.
func NewService(sessions SessionSource, taskTypes TaskTypeSource, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Thresholds == nil {
		opts.Thresholds = duration.DefaultThresholds
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = DefaultMaxRangeDays
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Service{
		sessions:   sessions,
		taskTypes:  taskTypes,
		loc:        opts.Location,
		thresholds: opts.Thresholds,
		clock:      opts.Clock,
		maxDays:    opts.MaxRangeDays,
		timeout:    opts.Timeout,
		logger:     logger,
	}
}

// ParseDate parses a YYYY-MM-DD date. An empty string yields the zero time,
// which the summary methods treat as "use the default".
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: expected YYYY-MM-DD", ErrInvalidDate, value)
	}
	return t, nil
}

// Location returns the reporting time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Daily summarizes one local day. A zero date means today.
func (s *Service) Daily(ctx context.Context, ownerID string, date time.Time) (*Summary, error) {
	day := s.today()
	if !date.IsZero() {
		day = s.midnight(date)
	}

	summary, _, err := s.summarize(ctx, ownerID, day, day, false)
	if err != nil {
		return nil, err
	}
	summary.Date = summary.StartDate
	return summary, nil
}

// Weekly summarizes [start, end] and includes one DailyData per day.
// Defaults to the seven days ending today.
func (s *Service) Weekly(ctx context.Context, ownerID string, start, end time.Time) (*WeeklySummary, error) {
	first, last := s.resolve(start, end, func(last time.Time) time.Time {
		return last.AddDate(0, 0, -(weeklyDays - 1))
	})

	summary, daily, err := s.summarize(ctx, ownerID, first, last, true)
	if err != nil {
		return nil, err
	}
	return &WeeklySummary{Summary: *summary, DailyData: daily}, nil
}

// Monthly summarizes [start, end]. Defaults to the current month through
// today.
func (s *Service) Monthly(ctx context.Context, ownerID string, start, end time.Time) (*Summary, error) {
	first, last := s.resolve(start, end, func(last time.Time) time.Time {
		return last.AddDate(0, 0, 1-last.Day())
	})

	summary, _, err := s.summarize(ctx, ownerID, first, last, false)
	return summary, err
}

// Heatmap returns tracked hours and intensity for every day in [start, end].
// Defaults to the ninety days ending today.
func (s *Service) Heatmap(ctx context.Context, ownerID string, start, end time.Time) (*Heatmap, error) {
	first, last := s.resolve(start, end, func(last time.Time) time.Time {
		return last.AddDate(0, 0, -(heatmapDays - 1))
	})
	if err := s.checkRange(first, last); err != nil {
		return nil, err
	}

	sessions, err := s.load(ctx, ownerID, first, nextDay(last))
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	heatmap := &Heatmap{
		StartDate: first.Format(DateLayout),
		EndDate:   last.Format(DateLayout),
		Days:      []HeatmapDay{},
	}
	for _, day := range days(first, last) {
		var total time.Duration
		for _, iv := range clipAll(sessions, day, nextDay(day), now) {
			total += iv.length()
		}
		heatmap.Days = append(heatmap.Days, HeatmapDay{
			Date:  day.Format(DateLayout),
			Hours: math.Round(total.Hours()*100) / 100,
			Level: s.thresholds.Level(total.Hours()),
		})
	}

	s.logger.Debug("heatmap computed", "owner_id", ownerID, "start", heatmap.StartDate, "end", heatmap.EndDate)
	return heatmap, nil
}

// summarize builds the grouped summary for [first, last] and, when perDay is
// set, the daily series.
func (s *Service) summarize(ctx context.Context, ownerID string, first, last time.Time, perDay bool) (*Summary, []DailyData, error) {
	if err := s.checkRange(first, last); err != nil {
		return nil, nil, err
	}

	end := nextDay(last)
	sessions, err := s.load(ctx, ownerID, first, end)
	if err != nil {
		return nil, nil, err
	}
	taskTypes, err := s.lookupTaskTypes(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	groups, total := group(clipAll(sessions, first, end, now), taskTypes)

	summary := &Summary{
		StartDate:             first.Format(DateLayout),
		EndDate:               last.Format(DateLayout),
		TotalTrackedSeconds:   total,
		TotalTrackedFormatted: formatSeconds(total),
		Groups:                groups,
	}

	var daily []DailyData
	if perDay {
		daily = []DailyData{}
		for _, day := range days(first, last) {
			var sum time.Duration
			for _, iv := range clipAll(sessions, day, nextDay(day), now) {
				sum += iv.length()
			}
			seconds := int64(sum / time.Second)
			daily = append(daily, DailyData{
				Date:                 day.Format(DateLayout),
				TotalDurationSeconds: seconds,
				TotalFormatted:       formatSeconds(seconds),
			})
		}
	}

	s.logger.Debug("summary computed", "owner_id", ownerID, "start", summary.StartDate, "end", summary.EndDate, "groups", len(groups))
	return summary, daily, nil
}

// group sums clipped intervals per task type. Counts are of original
// sessions, so a session split across days counts once.
func group(intervals []interval, taskTypes map[string]tasktype.TaskType) ([]Group, int64) {
	type acc struct {
		total       time.Duration
		sessions    map[string]struct{}
		interrupted map[string]struct{}
	}

	byType := make(map[string]*acc)
	for _, iv := range intervals {
		a, ok := byType[iv.sess.TaskTypeID]
		if !ok {
			a = &acc{sessions: map[string]struct{}{}, interrupted: map[string]struct{}{}}
			byType[iv.sess.TaskTypeID] = a
		}
		a.total += iv.length()
		a.sessions[iv.sess.ID] = struct{}{}
		if iv.sess.Interrupted {
			a.interrupted[iv.sess.ID] = struct{}{}
		}
	}

	groups := make([]Group, 0, len(byType))
	var grand int64
	for id, a := range byType {
		seconds := int64(a.total / time.Second)
		grand += seconds

		g := Group{
			TaskTypeID:           id,
			Name:                 unknownTaskTypeName,
			TotalDurationSeconds: seconds,
			DurationFormatted:    formatSeconds(seconds),
			TaskCount:            len(a.sessions),
			InterruptedCount:     len(a.interrupted),
			sortOrder:            math.MaxInt,
		}
		if tt, ok := taskTypes[id]; ok {
			g.Name = tt.Name
			g.Emoji = tt.Emoji
			g.Color = tt.Color
			g.sortOrder = tt.SortOrder
		}
		groups = append(groups, g)
	}

	for i := range groups {
		groups[i].Percentage = percentage(groups[i].TotalDurationSeconds, grand)
	}

	slices.SortFunc(groups, func(a, b Group) int {
		if c := cmp.Compare(b.TotalDurationSeconds, a.TotalDurationSeconds); c != 0 {
			return c
		}
		if c := cmp.Compare(a.sortOrder, b.sortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.TaskTypeID, b.TaskTypeID)
	})

	return groups, grand
}

// percentage is part/total*100 rounded to one decimal, 0 for an empty total.
func percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func formatSeconds(seconds int64) string {
	formatted, err := duration.Format(seconds)
	if err != nil {
		return duration.Zero
	}
	return formatted
}

func (s *Service) load(ctx context.Context, ownerID string, from, to time.Time) ([]session.Session, error) {
	if ownerID == "" {
		return nil, session.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sessions, err := s.sessions.ListOverlapping(ctx, ownerID, from, to)
	if err != nil {
		return nil, storeError("loading sessions", err)
	}
	return sessions, nil
}

func (s *Service) lookupTaskTypes(ctx context.Context, ownerID string) (map[string]tasktype.TaskType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	list, err := s.taskTypes.List(ctx, ownerID, tasktype.ListOptions{IncludeArchived: true})
	if err != nil {
		return nil, storeError("loading task types", err)
	}
	byID := make(map[string]tasktype.TaskType, len(list))
	for _, tt := range list {
		byID[tt.ID] = tt
	}
	return byID, nil
}

// resolve fills defaults and converts both bounds to local midnights.
func (s *Service) resolve(start, end time.Time, defaultStart func(last time.Time) time.Time) (time.Time, time.Time) {
	last := s.today()
	if !end.IsZero() {
		last = s.midnight(end)
	}
	if start.IsZero() {
		return s.midnight(defaultStart(last)), last
	}
	return s.midnight(start), last
}

func (s *Service) checkRange(first, last time.Time) error {
	if last.Before(first) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange, last.Format(DateLayout), first.Format(DateLayout))
	}
	// Hours/24 rounds away DST shifts.
	span := int(math.Round(last.Sub(first).Hours()/24)) + 1
	if span > s.maxDays {
		return fmt.Errorf("%w: %d days exceeds the %d day maximum", ErrInvalidRange, span, s.maxDays)
	}
	return nil
}

func (s *Service) today() time.Time {
	return s.midnight(s.clock.Now().In(s.loc))
}

// midnight returns local midnight of t's calendar date, read in t's own
// location.
func (s *Service) midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func storeError(op string, err error) error {
	if errors.Is(err, repository.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", session.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
