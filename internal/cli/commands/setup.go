package commands

import (
	"errors"
	"log/slog"

	"github.com/leapstack-labs/confreport/internal/cli/config"
	"github.com/leapstack-labs/confreport/internal/cli/output"
	"github.com/leapstack-labs/confreport/internal/report"
	"github.com/leapstack-labs/confreport/pkg/configtables"
	"github.com/spf13/cobra"
)

// ErrInvalidConfig is returned by commands that report an invalid
// configuration, so the process exits non-zero.
var ErrInvalidConfig = errors.New("configuration is invalid")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the loaded configuration, or the defaults when the
// command runs without the root command's pre-run.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// ReportOptions maps the CLI settings onto the report pipeline. Tables are
// rendered in markdown syntax when the output is markdown.
func (c *CommandContext) ReportOptions() (report.Options, error) {
	format := configtables.FormatText
	if c.Renderer.EffectiveMode() == output.ModeMarkdown {
		format = configtables.FormatMarkdown
	}
	tr, err := configtables.NewPrettyRenderer(c.Cfg.Style, format)
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{
		Delimiter:      c.Cfg.Delimiter,
		Marker:         c.Cfg.Marker,
		TreePrefix:     c.Cfg.TreePrefix,
		Renderer:       tr,
		IncludeMissing: c.Cfg.IncludeMissing,
		IncludeValid:   c.Cfg.IncludeValid,
		Logger:         c.Logger,
	}, nil
}

// printErrorTree writes the error tree of rep, if there is one.
func (c *CommandContext) printErrorTree(rep *report.Report) {
	text, ok := rep.ErrorTree()
	if !ok {
		return
	}
	r := c.Renderer
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(2, "Configuration errors"))
		r.Println("")
		r.Println(output.FormatCodeBlock("text", text))
		return
	}
	r.Header(2, "Configuration errors")
	r.Println(text)
}

// printTables writes every table of rep, separated by blank lines.
func (c *CommandContext) printTables(rep *report.Report) {
	text, ok := rep.TablesText()
	if !ok {
		c.Renderer.Muted("No tables to show.")
		return
	}
	c.Renderer.Println(text)
}

// addReportFlags registers the flags that control which records the error
// tree shows. They are read through the layered configuration.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("include-missing", config.DefaultIncludeMissing, "List keys that are missing from the configuration")
	cmd.Flags().Bool("include-valid", config.DefaultIncludeValid, "List passing keys as well")
}
