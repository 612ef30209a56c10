package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rpggio/worklog/internal/app"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/spf13/cobra"
)

func taskTypesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task-types",
		Short: "Manage task types",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List task types in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				types, err := a.TaskTypes.List(ctx, ownerID, tasktype.ListOptions{IncludeArchived: all})
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), types, func(w io.Writer) {
					for i := range types {
						tt := &types[i]
						var marks string
						if tt.IsPinned {
							marks += " (pinned)"
						}
						if tt.IsArchived {
							marks += " (archived)"
						}
						fmt.Fprintf(w, "%-36s  %s%s\n", tt.ID, label(tt), marks)
					}
				})
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include archived task types")

	var emoji, color string
	var pinned bool
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				tt, err := a.TaskTypes.Create(ctx, ownerID, tasktype.CreateRequest{
					Name:     args[0],
					Emoji:    emoji,
					Color:    color,
					IsPinned: pinned,
				})
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), tt, func(w io.Writer) {
					fmt.Fprintf(w, "Added %s (%s)\n", label(tt), tt.ID)
				})
			})
		},
	}
	add.Flags().StringVar(&emoji, "emoji", "", "emoji shown next to the name")
	add.Flags().StringVar(&color, "color", "", "display color, e.g. #3A8E61")
	add.Flags().BoolVar(&pinned, "pin", false, "pin to the quick-start list")

	archive := &cobra.Command{
		Use:   "archive <name or id>",
		Short: "Archive a task type; its history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				tt, err := findTaskType(ctx, a, ownerID, args[0])
				if err != nil {
					return err
				}
				archived, err := a.TaskTypes.Archive(ctx, ownerID, tt.ID)
				if err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), archived, func(w io.Writer) {
					fmt.Fprintf(w, "Archived %s\n", label(archived))
				})
			})
		},
	}

	cmd.AddCommand(list, add, archive)
	return cmd
}
