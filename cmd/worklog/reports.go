package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/rpggio/worklog/internal/app"
	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/spf13/cobra"
)

// heatmapGlyphs renders levels 0 through 4.
var heatmapGlyphs = []string{"·", "░", "▒", "▓", "█"}

func summaryCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize tracked time by task type",
	}

	var date string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Summarize one day (default today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				day, err := analytics.ParseDate(date)
				if err != nil {
					return err
				}
				summary, err := a.Analytics.Daily(ctx, ownerID, day)
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), summary, func(w io.Writer) {
					printSummary(w, summary)
				})
			})
		},
	}
	daily.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD")

	var weeklyRange, monthlyRange dateRangeFlags
	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Summarize a range with per-day totals (default last 7 days)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				start, end, err := weeklyRange.parse()
				if err != nil {
					return err
				}
				summary, err := a.Analytics.Weekly(ctx, ownerID, start, end)
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), summary, func(w io.Writer) {
					printSummary(w, &summary.Summary)
					fmt.Fprintln(w)
					for _, day := range summary.DailyData {
						fmt.Fprintf(w, "  %s  %s\n", day.Date, day.TotalFormatted)
					}
				})
			})
		},
	}
	weeklyRange.register(weekly)

	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Summarize a range (default month to date)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				start, end, err := monthlyRange.parse()
				if err != nil {
					return err
				}
				summary, err := a.Analytics.Monthly(ctx, ownerID, start, end)
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), summary, func(w io.Writer) {
					printSummary(w, summary)
				})
			})
		},
	}
	monthlyRange.register(monthly)

	cmd.AddCommand(daily, weekly, monthly)
	return cmd
}

func heatmapCmd(flags *globalFlags) *cobra.Command {
	var dates dateRangeFlags
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show hours per day as intensity levels (default last 90 days)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				start, end, err := dates.parse()
				if err != nil {
					return err
				}
				heatmap, err := a.Analytics.Heatmap(ctx, ownerID, start, end)
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), heatmap, func(w io.Writer) {
					printHeatmap(w, heatmap)
				})
			})
		},
	}
	dates.register(cmd)
	return cmd
}

type dateRangeFlags struct {
	start string
	end   string
}

func (d *dateRangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.start, "start", "", "first day as YYYY-MM-DD")
	cmd.Flags().StringVar(&d.end, "end", "", "last day as YYYY-MM-DD (default today)")
}

func (d *dateRangeFlags) parse() (start, end time.Time, err error) {
	if start, err = analytics.ParseDate(d.start); err != nil {
		return
	}
	end, err = analytics.ParseDate(d.end)
	return
}

func printSummary(w io.Writer, s *analytics.Summary) {
	if s.Date != "" {
		fmt.Fprintf(w, "%s: %s tracked\n", s.Date, s.TotalTrackedFormatted)
	} else {
		fmt.Fprintf(w, "%s to %s: %s tracked\n", s.StartDate, s.EndDate, s.TotalTrackedFormatted)
	}
	for _, g := range s.Groups {
		name := g.Name
		if g.Emoji != "" {
			name = g.Emoji + " " + name
		}
		fmt.Fprintf(w, "  %-20s %8s %5.1f%%  %s\n",
			name, g.DurationFormatted, g.Percentage, english.Plural(g.TaskCount, "session", "sessions"))
	}
}

func printHeatmap(w io.Writer, h *analytics.Heatmap) {
	fmt.Fprintf(w, "%s to %s\n", h.StartDate, h.EndDate)
	var row strings.Builder
	for i, day := range h.Days {
		row.WriteString(heatmapGlyphs[min(max(day.Level, 0), len(heatmapGlyphs)-1)])
		if (i+1)%7 == 0 || i == len(h.Days)-1 {
			fmt.Fprintln(w, row.String())
			row.Reset()
		}
	}
}
