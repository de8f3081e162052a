// Package cli implements the socialnet command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	return newRootCommand(out, build, newRuntime())
}

func newRootCommand(out io.Writer, build BuildInfo, rt *runtime) *cobra.Command {
	rt.build = build
	cmd := &cobra.Command{
		Use:           "socialnet",
		Short:         "Manage the socialnet database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.AddCommand(newVersionCommand(out, build))
	cmd.AddCommand(newMigrateCommand(out, rt))
	cmd.AddCommand(newSeedCommand(out, rt))
	cmd.AddCommand(newShowCommand(out, rt))
	cmd.AddCommand(newUserCommand(out, rt))
	cmd.AddCommand(newFollowCommand(out, rt))
	cmd.PersistentFlags().StringVarP(&rt.output, "output", "o", "json", "Record output format: json or yaml")
	enforceUsageErrors(cmd)
	return cmd
}

// enforceUsageErrors makes cobra's own argument, flag and unknown-command
// failures exit with ExitCodeUsage. Group commands print help when run bare.
func enforceUsageErrors(root *cobra.Command) {
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		if !c.Runnable() && c.HasSubCommands() {
			c.Args = cobra.NoArgs
			c.RunE = func(c *cobra.Command, _ []string) error {
				return c.Help()
			}
		}
		if validate := c.Args; validate != nil {
			c.Args = func(c *cobra.Command, args []string) error {
				if err := validate(c, args); err != nil {
					return usageError(err)
				}
				return nil
			}
		}
		if c.PreRunE == nil && c.PreRun == nil {
			c.PreRunE = func(c *cobra.Command, _ []string) error {
				if err := c.ValidateRequiredFlags(); err != nil {
					return usageError(err)
				}
				return nil
			}
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(root)
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return writeJSON(out, build)
			}

			_, err := fmt.Fprintf(out, "version=%s commit=%s build_time=%s\n", build.Version, build.Commit, build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRecord prints v in the format selected by --output.
func writeRecord(out io.Writer, format string, v any) error {
	switch format {
	case "", "json":
		return writeJSON(out, v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return usageError(fmt.Errorf("unsupported output format %q", format))
	}
}
