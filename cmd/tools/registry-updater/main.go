// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"investr-engine/pkg/registry"
)

var registryPath string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Inspect and maintain the activity registry",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&registryPath, "path", "p", "configs/activity-registry.json", "Path to registry file")

	cmd.AddCommand(
		newListCommand(),
		newValidateCommand(),
		newSetStatusCommand(),
	)
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTASK TYPE\tSTATUS\tRETRIES\tERROR CODES")
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					a.ID, a.TaskType, a.ImplementationStatus, a.Retries, strings.Join(a.ErrorCodes, ","))
			}
			return w.Flush()
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate required fields, uniqueness and JSON schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed:\n%w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}

func newSetStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set-status <id> <status>",
		Short:   "Update an activity's implementation status",
		Example: "  registry-updater set-status simulate-mortgage verified",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.SetStatus(args[0], args[1]); err != nil {
				return err
			}
			if err := reg.Save(registryPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s status to %s\n", args[0], args[1])
			return nil
		},
	}
}
