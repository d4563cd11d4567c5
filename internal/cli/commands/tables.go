package commands

import (
	"github.com/leapstack-labs/confreport/internal/cli/output"
	"github.com/leapstack-labs/confreport/internal/report"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables <config> <spec>",
		Short: "Render summary tables for a configuration",
		Long: `Validate a configuration against its specification and render one summary
table per section.

Section layout follows the directives in the specification: __title, __note,
__header, __type (list_keys, list_values, list_all, variable), __wrap,
__parent, __toggle and __ignore. An invalid configuration prints its error
tree instead and exits with a non-zero status.`,
		Example: `  confreport tables app.yaml app.spec.yaml
  confreport tables app.yaml app.spec.yaml --style double
  confreport tables app.yaml app.spec.yaml -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(cmd, args[0], args[1])
		},
	}
}

func runTables(cmd *cobra.Command, configPath, specPath string) error {
	cc := NewCommandContext(cmd)
	opts, err := cc.ReportOptions()
	if err != nil {
		return err
	}
	rep, err := report.Run(cmd.Context(), configPath, specPath, opts)
	if err != nil {
		return err
	}

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		if err := cc.Renderer.JSON(rep); err != nil {
			return err
		}
	} else if rep.Valid() {
		cc.printTables(rep)
	} else {
		cc.printErrorTree(rep)
	}

	if !rep.Valid() {
		return ErrInvalidConfig
	}
	return nil
}
