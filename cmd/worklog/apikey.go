package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/worklog/internal/app"
	"github.com/spf13/cobra"
)

func apiKeyCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys for the HTTP surface",
	}

	var description string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an API key for the owner and print it once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app.App, ownerID string) error {
				token := newToken()
				if err := a.APIKeys.Add(ctx, ownerID, token, description); err != nil {
					return err
				}
				return flags.print(cmd.OutOrStdout(), map[string]string{"owner_id": ownerID, "token": token}, func(w io.Writer) {
					fmt.Fprintf(w, "API key for %s (store it now, it is not shown again):\n%s\n", ownerID, token)
				})
			})
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "where the key is used")

	cmd.AddCommand(add)
	return cmd
}

func newToken() string {
	return "wl_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
