package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Veraticus/finflow/internal/cli"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore all of your data",
	}

	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupImportCmd())

	return cmd
}

func backupExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				raw, err := a.client.Auth.ExportBackup(ctx)
				if err != nil {
					return apiFailure("Failed to export backup", err)
				}
				if output == "-" {
					_, err := a.out.Write(append(raw, '\n'))
					return err
				}
				if err := os.WriteFile(output, raw, 0o600); err != nil {
					return fmt.Errorf("failed to write backup: %w", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Backup written to %s (%d bytes)", output, len(raw))))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", fmt.Sprintf("finflow-backup-%s.json", time.Now().Format("2006-01-02")), "file to write, or - for stdout")

	return cmd
}

func backupImportCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a JSON backup",
		Long:  "Restore a backup produced by 'finflow backup export'. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readBackup(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				ok, err := a.confirm(ctx, yes || args[0] == "-", "Restoring replaces data on the server. Continue?")
				if err != nil || !ok {
					return err
				}
				if err := a.client.Auth.ImportBackup(ctx, raw); err != nil {
					return apiFailure("Failed to import backup", err)
				}
				a.println(cli.FormatSuccess("Backup restored"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func readBackup(stdin io.Reader, path string) (json.RawMessage, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path) // #nosec G304 -- user-selected backup
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return raw, nil
}
