package main

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change your stored preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show every stored preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				settings, err := a.client.Auth.Settings(ctx)
				if err != nil {
					return apiFailure("Failed to load settings", err)
				}
				printSettings(a, settings)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set key=value...",
		Short: "Change one or more preferences",
		Long: `Change one or more preferences. Values are read as JSON when they
parse as JSON (numbers, true/false, objects) and as plain strings otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseAssignments(args)
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				settings, err := a.client.Auth.Settings(ctx)
				if err != nil {
					return apiFailure("Failed to load settings", err)
				}
				if settings == nil {
					settings = model.Settings{}
				}
				for k, v := range changes {
					settings[k] = v
				}
				if err := a.client.Auth.UpdateSettings(ctx, settings); err != nil {
					return apiFailure("Failed to save settings", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Saved %d setting(s)", len(changes))))
				return nil
			})
		},
	})

	return cmd
}

// parseAssignments turns key=value arguments into settings values.
func parseAssignments(args []string) (map[string]any, error) {
	changes := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, common.NewUserError(fmt.Sprintf("Expected key=value, got %q", arg), common.ErrInvalidConfig)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		changes[key] = value
	}
	return changes, nil
}

func printSettings(a *app, settings model.Settings) {
	if len(settings) == 0 {
		a.println(cli.InfoStyle.Render("No preferences stored."))
		return
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		value, err := json.Marshal(settings[k])
		if err != nil {
			value = []byte(fmt.Sprint(settings[k]))
		}
		a.printf("%-20s %s\n", cli.BoldStyle.Render(k), value)
	}
}
