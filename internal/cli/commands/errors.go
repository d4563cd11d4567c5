package commands

import (
	"github.com/leapstack-labs/confreport/internal/cli/output"
	"github.com/leapstack-labs/confreport/internal/report"
	"github.com/spf13/cobra"
)

// NewErrorsCommand creates the errors command.
func NewErrorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors <config> <spec>",
		Short: "Render the validation error tree for a configuration",
		Long: `Validate a configuration against its specification and print every failing
key as an indented tree. Each failure is followed by the expected type, its
bounds and its default, taken from the specification.

The command exits with a non-zero status when the configuration is invalid.`,
		Example: `  confreport errors app.yaml app.spec.yaml
  confreport errors app.yaml app.spec.yaml --include-valid
  confreport errors app.yaml app.spec.yaml --include-missing=false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runErrors(cmd, args[0], args[1])
		},
	}
	addReportFlags(cmd)
	return cmd
}

func runErrors(cmd *cobra.Command, configPath, specPath string) error {
	cc := NewCommandContext(cmd)
	opts, err := cc.ReportOptions()
	if err != nil {
		return err
	}
	rep, err := report.Run(cmd.Context(), configPath, specPath, opts)
	if err != nil {
		return err
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(rep.Errors); err != nil {
			return err
		}
	} else {
		cc.printErrorTree(rep)
		if rep.Valid() {
			r.Success("Configuration is valid.")
		}
	}

	if !rep.Valid() {
		return ErrInvalidConfig
	}
	return nil
}
