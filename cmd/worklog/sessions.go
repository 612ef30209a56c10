package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rpggio/worklog/internal/app"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/duration"
	"github.com/spf13/cobra"
)

func startCmd(flags *globalFlags) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "start <task type>",
		Short: "Start tracking a task type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				tt, err := findTaskType(ctx, a, ownerID, args[0])
				if err != nil {
					return err
				}
				sess, err := a.Sessions.Start(ctx, ownerID, session.StartRequest{TaskTypeID: tt.ID, Notes: notes})
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), sess, func(w io.Writer) {
					fmt.Fprintf(w, "Started %s\n", label(tt))
				})
			})
		},
	}
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "session notes")
	return cmd
}

func stopCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the open session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				sess, err := a.Sessions.Stop(ctx, ownerID)
				if err != nil {
					return err
				}
				elapsed, _ := sess.Duration()
				return flags.print(cmd.OutOrStdout(), sess, func(w io.Writer) {
					fmt.Fprintf(w, "Stopped after %s\n", formatDuration(elapsed))
				})
			})
		},
	}
}

func interruptCmd(flags *globalFlags) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "interrupt <task type>",
		Short: "Switch to another task type without a gap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				tt, err := findTaskType(ctx, a, ownerID, args[0])
				if err != nil {
					return err
				}
				result, err := a.Sessions.Interrupt(ctx, ownerID, session.StartRequest{TaskTypeID: tt.ID, Notes: notes})
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), result, func(w io.Writer) {
					if result.Interrupted != nil {
						elapsed, _ := result.Interrupted.Duration()
						fmt.Fprintf(w, "Interrupted previous session after %s\n", formatDuration(elapsed))
					}
					fmt.Fprintf(w, "Started %s\n", label(tt))
				})
			})
		},
	}
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "session notes")
	return cmd
}

func statusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the open session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				sess, err := a.Sessions.GetCurrent(ctx, ownerID)
				if err != nil {
					return err
				}
				if sess == nil {
					return flags.print(cmd.OutOrStdout(), map[string]any{"session": nil}, func(w io.Writer) {
						fmt.Fprintln(w, "Not tracking")
					})
				}

				tt, err := a.TaskTypes.Get(ctx, ownerID, sess.TaskTypeID)
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), map[string]any{"session": sess}, func(w io.Writer) {
					fmt.Fprintf(w, "%s for %s (started %s)\n",
						label(tt), formatDuration(a.Clock.Now().Sub(sess.StartTime)), humanize.Time(sess.StartTime))
					if sess.Notes != "" {
						fmt.Fprintf(w, "  %s\n", sess.Notes)
					}
				})
			})
		},
	}
}

// withApp opens the store, runs fn as the selected owner and closes it.
func withApp(flags *globalFlags, fn func(ctx context.Context, a *app.App, ownerID string) error) error {
	a, cfg, err := flags.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	ownerID := flags.ownerID(cfg)
	if err := a.SeedOwner(ctx, ownerID); err != nil {
		return err
	}
	return fn(ctx, a, ownerID)
}

// findTaskType matches an ID or a case-insensitive name among active task
// types.
func findTaskType(ctx context.Context, a *app.App, ownerID, query string) (*tasktype.TaskType, error) {
	list, err := a.TaskTypes.List(ctx, ownerID, tasktype.ListOptions{})
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == query || strings.EqualFold(list[i].Name, query) {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", session.ErrInvalidTaskType, query)
}

func label(tt *tasktype.TaskType) string {
	if tt.Emoji == "" {
		return tt.Name
	}
	return tt.Emoji + " " + tt.Name
}

func formatDuration(d time.Duration) string {
	formatted, err := duration.Format(int64(max(d, 0) / time.Second))
	if err != nil {
		return d.String()
	}
	return formatted
}

// print writes v as JSON with --json, otherwise calls text.
func (f *globalFlags) print(w io.Writer, v any, text func(io.Writer)) error {
	if f.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
